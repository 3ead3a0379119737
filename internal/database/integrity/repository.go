// Package integrity finds and removes join rows whose parent row is gone.
//
// Stores created without foreign key enforcement can hold library_books,
// library_members and borrowed_books rows that point at deleted books,
// libraries or members. The repositories never produce such rows, but the
// sweep cleans them up in databases written by older tooling.
package integrity

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
)

// OrphanReport counts dangling rows per relation.
type OrphanReport struct {
	LibraryBooks   int64 `json:"library_books"`
	LibraryMembers int64 `json:"library_members"`
	BorrowedBooks  int64 `json:"borrowed_books"`
}

// Total returns the number of dangling rows across all relations.
func (r OrphanReport) Total() int64 {
	return r.LibraryBooks + r.LibraryMembers + r.BorrowedBooks
}

type orphanRule struct {
	table string
	where string
}

var orphanRules = []orphanRule{
	{"library_books", "library_id NOT IN (SELECT id FROM library) OR book_id NOT IN (SELECT id FROM books)"},
	{"library_members", "library_id NOT IN (SELECT id FROM library) OR member_id NOT IN (SELECT id FROM members)"},
	{"borrowed_books", "member_id NOT IN (SELECT id FROM members) OR book_id NOT IN (SELECT id FROM books)"},
}

// Repository runs integrity checks against the store.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new integrity repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// CountOrphans reports dangling rows without changing anything.
func (r *Repository) CountOrphans(ctx context.Context) (OrphanReport, error) {
	var report OrphanReport
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		for _, rule := range orphanRules {
			var count int64
			if err := tx.Table(rule.table).Where(rule.where).Count(&count).Error; err != nil {
				return fmt.Errorf("count %s: %w", rule.table, err)
			}
			report.set(rule.table, count)
		}
		return nil
	})
	if err != nil {
		return OrphanReport{}, database.Wrap("count orphans", err)
	}
	return report, nil
}

// SweepOrphans deletes dangling rows in a single transaction and reports how
// many were removed from each relation.
func (r *Repository) SweepOrphans(ctx context.Context) (OrphanReport, error) {
	var report OrphanReport
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		for _, rule := range orphanRules {
			result := tx.Exec("DELETE FROM " + rule.table + " WHERE " + rule.where)
			if result.Error != nil {
				return fmt.Errorf("sweep %s: %w", rule.table, result.Error)
			}
			report.set(rule.table, result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return OrphanReport{}, database.Wrap("sweep orphans", err)
	}

	if report.Total() > 0 {
		log.Printf("[SWEEP] Removed %d orphan rows (library_books=%d, library_members=%d, borrowed_books=%d)",
			report.Total(), report.LibraryBooks, report.LibraryMembers, report.BorrowedBooks)
	}
	return report, nil
}

func (r *OrphanReport) set(table string, count int64) {
	switch table {
	case "library_books":
		r.LibraryBooks = count
	case "library_members":
		r.LibraryMembers = count
	case "borrowed_books":
		r.BorrowedBooks = count
	}
}
