package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/lending/internal/database/books"
	"github.com/mrlokans/lending/internal/database/integrity"
	"github.com/mrlokans/lending/internal/database/libraries"
	"github.com/mrlokans/lending/internal/database/members"
	"github.com/mrlokans/lending/internal/database/memory"
	"github.com/mrlokans/lending/internal/http"
	"github.com/mrlokans/lending/internal/scheduler"
	"github.com/mrlokans/lending/internal/services"
	"github.com/mrlokans/lending/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ services.BookStore = (*books.Repository)(nil)
var _ services.BookStore = (*memory.Store)(nil)

// LibraryStore implementations
var _ services.LibraryStore = (*libraries.Repository)(nil)
var _ services.LibraryStore = (*memory.Store)(nil)

// MemberStore implementations
var _ services.MemberStore = (*members.Repository)(nil)
var _ services.MemberStore = (*memory.Store)(nil)

// =============================================================================
// Maintenance
// =============================================================================

// Orphan sweeps
var _ tasks.OrphanSweeper = (*integrity.Repository)(nil)
var _ http.IntegrityStore = (*integrity.Repository)(nil)
var _ http.SweepStatusReporter = (*scheduler.OrphanSweepScheduler)(nil)

// Task queue
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
