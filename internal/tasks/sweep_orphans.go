package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lending/internal/database/integrity"
)

// OrphanSweeper finds and removes join rows whose parent row is gone.
type OrphanSweeper interface {
	CountOrphans(ctx context.Context) (integrity.OrphanReport, error)
	SweepOrphans(ctx context.Context) (integrity.OrphanReport, error)
}

// SweepOrphansTask removes dangling library_books, library_members and
// borrowed_books rows. With DryRun set it only counts them.
type SweepOrphansTask struct {
	DryRun bool `json:"dry_run"`
}

// Config returns the queue configuration for sweep tasks.
func (t SweepOrphansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_orphans",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SweepOrphansProcessor creates a processor function for SweepOrphansTask.
func SweepOrphansProcessor(sweeper OrphanSweeper) backlite.QueueProcessor[SweepOrphansTask] {
	return func(ctx context.Context, task SweepOrphansTask) error {
		if sweeper == nil {
			return fmt.Errorf("orphan sweeper not configured")
		}

		if task.DryRun {
			report, err := sweeper.CountOrphans(ctx)
			if err != nil {
				return fmt.Errorf("count orphans: %w", err)
			}
			log.Printf("[TASK] Found %d orphan rows (dry run)", report.Total())
			return nil
		}

		report, err := sweeper.SweepOrphans(ctx)
		if err != nil {
			return fmt.Errorf("sweep orphans: %w", err)
		}
		log.Printf("[TASK] Swept %d orphan rows", report.Total())
		return nil
	}
}

// NewSweepOrphansQueue creates a backlite queue for sweep tasks.
func NewSweepOrphansQueue(sweeper OrphanSweeper) backlite.Queue {
	return backlite.NewQueue(SweepOrphansProcessor(sweeper))
}
