// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection pool, transactions, timestamps
//	├── errors.go        # Error kinds shared by all repositories
//	├── schema.go        # Table creation
//	├── books/           # Catalog entries
//	├── libraries/       # Libraries and per-library stock
//	├── members/         # Members, rosters and loans
//	├── integrity/       # Orphaned join row detection and cleanup
//	└── memory/          # In-memory store for handler tests
//
// # Using Sub-packages
//
//	db, err := database.Open("./lending.db", database.DefaultOptions())
//	if err := database.EnsureSchema(ctx, db); err != nil { ... }
//
//	booksRepo := books.NewRepository(db)
//	id, err := booksRepo.CreateBook(ctx, "Dune", "Frank Herbert", libraryID)
//
// Every repository call runs in a single transaction obtained through
// Database.Transaction. Checking out a connection is bounded by
// Options.AcquireTimeout and fails with ErrPoolExhausted.
//
// # Errors
//
// Repository errors wrap one of ErrNotFound, ErrConflict,
// ErrConstraintViolation, ErrPoolExhausted or ErrTransactionFailed; test
// for them with errors.Is. Updates and deletes that match no row are not
// errors and report zero affected rows.
package database
