package http

import (
	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core stores
	Books     services.BookStore
	Libraries services.LibraryStore
	Members   services.MemberStore

	// Health checks; may be nil
	Database *database.Database

	// Maintenance (optional)
	Integrity      IntegrityStore
	SweepScheduler SweepStatusReporter

	// Task queue client (optional)
	TaskClient TaskQueue

	// Application info
	Version string
}
