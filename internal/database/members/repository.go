// Package members provides database operations for members and the
// borrowed_books loan ledger.
//
// A row in borrowed_books is an open loan. Returning a book deletes the row,
// so the ledger only ever describes the current state.
//
// # Usage
//
//	repo := members.NewRepository(db)
//	_, err := repo.BorrowBook(ctx, memberID, bookID)
//	books, err := repo.GetBorrowedBooks(ctx, memberID, services.InLibrary(libraryID))
package members

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/entities"
	"github.com/mrlokans/lending/internal/services"
)

// Repository handles member and loan database operations.
type Repository struct {
	db *database.Database
	mu sync.Mutex
}

// NewRepository creates a new members repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// CreateMember inserts a member.
func (r *Repository) CreateMember(ctx context.Context, name, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := database.Now()
	member := entities.Member{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&member).Error
	})
	if err != nil {
		return 0, database.Wrap("create member", err)
	}
	return member.ID, nil
}

// UpdateMember changes name and email and refreshes updated_at.
func (r *Repository) UpdateMember(ctx context.Context, id int64, name, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&entities.Member{}).Where("id = ?", id).Updates(map[string]any{
			"name":  name,
			"email": email,
			// max() keeps updated_at from moving backwards if the clock does.
			"updated_at": gorm.Expr("max(updated_at, ?)", database.Now()),
		})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("update member", err)
	}
	return affected, nil
}

// DeleteMember removes a member with their open loans and memberships.
// A member who manages a library cannot be deleted; the store rejects it
// with a constraint violation and nothing is removed.
func (r *Repository) DeleteMember(ctx context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&entities.BorrowedBook{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", id).Delete(&entities.LibraryMember{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Member{}, id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("delete member", err)
	}
	return affected, nil
}

// GetMemberByID retrieves a member by ID.
func (r *Repository) GetMemberByID(ctx context.Context, id int64) (*entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var member entities.Member
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.First(&member, id).Error
	})
	if err != nil {
		return nil, database.Wrap("get member", err)
	}
	return &member, nil
}

// GetAllMembers retrieves every member.
func (r *Repository) GetAllMembers(ctx context.Context) ([]entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := []entities.Member{}
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Find(&members).Error
	})
	if err != nil {
		return nil, database.Wrap("list members", err)
	}
	return members, nil
}

// GetMembersByLibrary retrieves the members on a library's roster.
// No operation adds roster entries, so this is empty unless rows were
// written to library_members by other means.
func (r *Repository) GetMembersByLibrary(ctx context.Context, libraryID int64) ([]entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := []entities.Member{}
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		var memberIDs []int64
		if err := tx.Model(&entities.LibraryMember{}).
			Where("library_id = ?", libraryID).
			Pluck("member_id", &memberIDs).Error; err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return nil
		}
		return tx.Where("id IN ?", memberIDs).Find(&members).Error
	})
	if err != nil {
		return nil, database.Wrap("list members by library", err)
	}
	return members, nil
}

// BorrowBook opens a loan. A member cannot hold the same title twice; the
// second attempt fails with database.ErrConflict. Copy counts in
// library_books are neither checked nor decremented.
func (r *Repository) BorrowBook(ctx context.Context, memberID, bookID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Create(&entities.BorrowedBook{
			MemberID:   memberID,
			BookID:     bookID,
			BorrowedAt: database.Now(),
		})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("borrow book", err)
	}
	return affected, nil
}

// ReturnBook closes a loan. Returning a book that is not on loan affects
// 0 rows and is not an error.
func (r *Repository) ReturnBook(ctx context.Context, memberID, bookID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Where("member_id = ? AND book_id = ?", memberID, bookID).
			Delete(&entities.BorrowedBook{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("return book", err)
	}
	return affected, nil
}

// GetBorrowedBooks retrieves the books memberID currently holds, optionally
// restricted to titles linked to one library.
func (r *Repository) GetBorrowedBooks(ctx context.Context, memberID int64, filter services.LibraryFilter) ([]entities.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	books := []entities.Book{}
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		var bookIDs []int64
		if err := tx.Model(&entities.BorrowedBook{}).
			Where("member_id = ?", memberID).
			Pluck("book_id", &bookIDs).Error; err != nil {
			return err
		}

		if libraryID, ok := filter.LibraryID(); ok && len(bookIDs) > 0 {
			var held []int64
			if err := tx.Model(&entities.LibraryBook{}).
				Where("library_id = ? AND book_id IN ?", libraryID, bookIDs).
				Pluck("book_id", &held).Error; err != nil {
				return err
			}
			bookIDs = held
		}

		if len(bookIDs) == 0 {
			return nil
		}
		return tx.Where("id IN ?", bookIDs).Find(&books).Error
	})
	if err != nil {
		return nil, database.Wrap("list borrowed books", err)
	}
	return books, nil
}
