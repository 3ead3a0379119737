package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// schemaStatements are applied in dependency order: parents before the
// relations that reference them.
var schemaStatements = []struct {
	table string
	ddl   string
}{
	{"members", `CREATE TABLE IF NOT EXISTS members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`},
	{"library", `CREATE TABLE IF NOT EXISTS library (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		manager_id INTEGER NOT NULL,
		FOREIGN KEY (manager_id) REFERENCES members(id)
	)`},
	{"books", `CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`},
	{"library_books", `CREATE TABLE IF NOT EXISTS library_books (
		library_id INTEGER NOT NULL,
		book_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		FOREIGN KEY (library_id) REFERENCES library(id),
		FOREIGN KEY (book_id) REFERENCES books(id),
		PRIMARY KEY (library_id, book_id)
	)`},
	{"library_members", `CREATE TABLE IF NOT EXISTS library_members (
		library_id INTEGER NOT NULL,
		member_id INTEGER NOT NULL,
		FOREIGN KEY (library_id) REFERENCES library(id),
		FOREIGN KEY (member_id) REFERENCES members(id),
		PRIMARY KEY (library_id, member_id)
	)`},
	{"borrowed_books", `CREATE TABLE IF NOT EXISTS borrowed_books (
		member_id INTEGER NOT NULL,
		book_id INTEGER NOT NULL,
		borrowed_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES members(id),
		FOREIGN KEY (book_id) REFERENCES books(id),
		PRIMARY KEY (member_id, book_id)
	)`},
}

// Tables lists the relations EnsureSchema creates, in creation order.
func Tables() []string {
	tables := make([]string, 0, len(schemaStatements))
	for _, s := range schemaStatements {
		tables = append(tables, s.table)
	}
	return tables
}

// EnsureSchema creates all relations that do not exist yet, in one
// transaction. It is safe to call on every start.
func EnsureSchema(ctx context.Context, d *Database) error {
	err := d.Transaction(ctx, func(tx *gorm.DB) error {
		for _, s := range schemaStatements {
			if err := tx.Exec(s.ddl).Error; err != nil {
				return fmt.Errorf("create table %s: %w", s.table, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Printf("Database schema ready (%d tables)", len(schemaStatements))
	return nil
}
