package http

import (
	"context"

	"github.com/mrlokans/lending/internal/database/integrity"
	"github.com/mrlokans/lending/internal/scheduler"
)

// The book, library and member controllers depend on the store interfaces in
// the services package. The interfaces below cover maintenance endpoints.

// IntegrityStore counts and removes orphaned join rows.
type IntegrityStore interface {
	CountOrphans(ctx context.Context) (integrity.OrphanReport, error)
	SweepOrphans(ctx context.Context) (integrity.OrphanReport, error)
}

// SweepStatusReporter exposes the periodic sweep's schedule and last outcome.
type SweepStatusReporter interface {
	Status() scheduler.SweepStatus
}
