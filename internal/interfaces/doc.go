// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Catalog entries and their library links (internal/services/interfaces.go)
//   - LibraryStore: Libraries and per-library stock (internal/services/interfaces.go)
//   - MemberStore: Members and the loan ledger (internal/services/interfaces.go)
//
// Each has two implementations: the SQLite repositories under
// internal/database/{books,libraries,members} and the in-memory
// internal/database/memory.Store used by handler tests.
//
// ## Maintenance Interfaces
//
//   - OrphanSweeper: Counts and removes dangling join rows (internal/tasks/sweep_orphans.go)
//   - IntegrityStore: The same operations as seen by the admin endpoints (internal/http/stores.go)
//   - SweepStatusReporter: Periodic sweep status (internal/http/stores.go)
//
// ## Task Queue Interfaces
//
//   - TaskEnqueuer: Hands work to the background queue (internal/scheduler/orphan_sweep.go)
//   - TaskQueue: Enqueue plus status lookups for the task endpoints (internal/http/tasks.go)
//
// # Adding a New Background Task
//
//  1. Define the task and its processor in internal/tasks/
//
//     type ReindexTask struct{}
//
//     func (t ReindexTask) Config() backlite.QueueConfig {
//         return backlite.QueueConfig{Name: "reindex", MaxAttempts: 1}
//     }
//
//     func NewReindexQueue(store Reindexer) backlite.Queue {
//         return backlite.NewQueue[ReindexTask](ReindexProcessor(store))
//     }
//
//  2. Register the queue in entrypoint.go
//
//  3. Accept the task type in TasksController.RunTask
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
