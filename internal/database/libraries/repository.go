// Package libraries provides database operations for libraries and the
// copies of each title they hold.
//
// # Usage
//
//	repo := libraries.NewRepository(db)
//	id, err := repo.CreateLibrary(ctx, "Central", "1 Main St", managerID)
//	_, err = repo.SetBookQuantity(ctx, id, bookID, 5)
package libraries

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/entities"
)

// Repository handles all library database operations.
type Repository struct {
	db *database.Database
	mu sync.Mutex
}

// NewRepository creates a new libraries repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// CreateLibrary inserts a library. The store rejects a managerID that does
// not name an existing member.
func (r *Repository) CreateLibrary(ctx context.Context, name, address string, managerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := database.Now()
	library := entities.Library{
		Name:      name,
		Address:   address,
		ManagerID: managerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&library).Error
	})
	if err != nil {
		return 0, database.Wrap("create library", err)
	}
	return library.ID, nil
}

// UpdateLibrary changes name, address and manager.
func (r *Repository) UpdateLibrary(ctx context.Context, id int64, name, address string, managerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&entities.Library{}).Where("id = ?", id).Updates(map[string]any{
			"name":       name,
			"address":    address,
			"manager_id": managerID,
		})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("update library", err)
	}
	return affected, nil
}

// DeleteLibrary removes a library with its copy counts and roster.
func (r *Repository) DeleteLibrary(ctx context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("library_id = ?", id).Delete(&entities.LibraryBook{}).Error; err != nil {
			return err
		}
		if err := tx.Where("library_id = ?", id).Delete(&entities.LibraryMember{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Library{}, id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("delete library", err)
	}
	return affected, nil
}

// GetLibraryByID retrieves a library by ID.
func (r *Repository) GetLibraryByID(ctx context.Context, id int64) (*entities.Library, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var library entities.Library
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.First(&library, id).Error
	})
	if err != nil {
		return nil, database.Wrap("get library", err)
	}
	return &library, nil
}

// GetAllLibraries retrieves every library.
func (r *Repository) GetAllLibraries(ctx context.Context) ([]entities.Library, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	libraries := []entities.Library{}
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Find(&libraries).Error
	})
	if err != nil {
		return nil, database.Wrap("list libraries", err)
	}
	return libraries, nil
}

// AddBook links bookID to libraryID with a single copy. Linking the same
// pair twice fails with database.ErrConflict.
func (r *Repository) AddBook(ctx context.Context, libraryID, bookID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Create(&entities.LibraryBook{
			LibraryID: libraryID,
			BookID:    bookID,
			Quantity:  1,
		})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("add book to library", err)
	}
	return affected, nil
}

// SetBookQuantity overwrites the copy count of an existing link. It never
// creates a link; the affected count is 0 when the pair is unknown.
func (r *Repository) SetBookQuantity(ctx context.Context, libraryID, bookID, quantity int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&entities.LibraryBook{}).
			Where("library_id = ? AND book_id = ?", libraryID, bookID).
			Update("quantity", quantity)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Wrap("set book quantity", err)
	}
	return affected, nil
}
