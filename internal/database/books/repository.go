// Package books provides database operations for the book catalog.
//
// This package implements the BookStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	id, err := repo.CreateBook(ctx, "Dune", "Frank Herbert", libraryID)
package books

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/entities"
)

// Repository handles all book database operations.
// Calls are serialized; each one runs in its own transaction.
type Repository struct {
	db *database.Database
	mu sync.Mutex
}

// NewRepository creates a new books repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a catalog entry and links it to libraryID with one copy.
// Both inserts commit together or not at all.
func (r *Repository) CreateBook(ctx context.Context, title, author string, libraryID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := database.Now()
	book := entities.Book{
		Title:     title,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&book).Error; err != nil {
			return err
		}
		return tx.Create(&entities.LibraryBook{
			LibraryID: libraryID,
			BookID:    book.ID,
			Quantity:  1,
		}).Error
	})
	if err != nil {
		return 0, database.Wrap("create book", err)
	}
	return book.ID, nil
}

// UpdateBook changes title and author. updated_at is left untouched.
func (r *Repository) UpdateBook(ctx context.Context, id int64, title, author string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).Where("id = ?", id).
			Updates(map[string]any{"title": title, "author": author})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("update book", err)
	}
	return affected, nil
}

// DeleteBook removes the catalog entry together with its library links and
// open loans.
func (r *Repository) DeleteBook(ctx context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.LibraryBook{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.BorrowedBook{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("delete book", err)
	}
	return affected, nil
}

// GetBookByID retrieves a book by its ID.
func (r *Repository) GetBookByID(ctx context.Context, id int64) (*entities.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var book entities.Book
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.First(&book, id).Error
	})
	if err != nil {
		return nil, database.Wrap("get book", err)
	}
	return &book, nil
}

// GetAllBooks retrieves every catalog entry.
func (r *Repository) GetAllBooks(ctx context.Context) ([]entities.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	books := []entities.Book{}
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Find(&books).Error
	})
	if err != nil {
		return nil, database.Wrap("list books", err)
	}
	return books, nil
}

// GetBooksByLibrary retrieves the books linked to libraryID.
func (r *Repository) GetBooksByLibrary(ctx context.Context, libraryID int64) ([]entities.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	books := []entities.Book{}
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		var bookIDs []int64
		if err := tx.Model(&entities.LibraryBook{}).
			Where("library_id = ?", libraryID).
			Pluck("book_id", &bookIDs).Error; err != nil {
			return err
		}
		if len(bookIDs) == 0 {
			return nil
		}
		return tx.Where("id IN ?", bookIDs).Find(&books).Error
	})
	if err != nil {
		return nil, database.Wrap("list books by library", err)
	}
	return books, nil
}
