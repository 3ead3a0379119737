package members

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/entities"
	"github.com/mrlokans/lending/internal/services"
)

func setupTestDB(t *testing.T) (*Repository, *database.Database) {
	t.Helper()
	opts := database.DefaultOptions()
	opts.LogLevel = "silent"

	db, err := database.Open(filepath.Join(t.TempDir(), "members.db"), opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.EnsureSchema(context.Background(), db))
	return NewRepository(db), db
}

func createLibrary(t *testing.T, db *database.Database, managerID int64, name string) int64 {
	t.Helper()
	now := database.Now()
	library := entities.Library{Name: name, Address: "1 Main St", ManagerID: managerID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.DB.Create(&library).Error)
	return library.ID
}

func createBook(t *testing.T, db *database.Database, title string, libraryIDs ...int64) int64 {
	t.Helper()
	now := database.Now()
	book := entities.Book{Title: title, Author: "Author", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.DB.Create(&book).Error)
	for _, libraryID := range libraryIDs {
		require.NoError(t, db.DB.Create(&entities.LibraryBook{LibraryID: libraryID, BookID: book.ID, Quantity: 1}).Error)
	}
	return book.ID
}

func bookIDs(books []entities.Book) []int64 {
	ids := make([]int64, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestRepository_CreateMember(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	id, err := repo.CreateMember(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)

	member, err := repo.GetMemberByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", member.Name)
	assert.Equal(t, "ada@example.com", member.Email)
	assert.Equal(t, member.CreatedAt, member.UpdatedAt)

	second, err := repo.CreateMember(ctx, "Grace", "grace@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, id, second)

	all, err := repo.GetAllMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_UpdateMember(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()
	id, err := repo.CreateMember(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	original, err := repo.GetMemberByID(ctx, id)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	affected, err := repo.UpdateMember(ctx, id, "Ada Lovelace", "ada@lovelace.org")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	updated, err := repo.GetMemberByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "ada@lovelace.org", updated.Email)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, original.UpdatedAt)

	affected, err = repo.UpdateMember(ctx, 999, "x", "y")
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestRepository_GetMemberByID_NotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.GetMemberByID(context.Background(), 999)

	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_DeleteMember(t *testing.T) {
	t.Run("removes loans and memberships", func(t *testing.T) {
		repo, db := setupTestDB(t)
		ctx := context.Background()
		manager, err := repo.CreateMember(ctx, "Manager", "m@example.com")
		require.NoError(t, err)
		reader, err := repo.CreateMember(ctx, "Reader", "r@example.com")
		require.NoError(t, err)
		libraryID := createLibrary(t, db, manager, "Central")
		bookID := createBook(t, db, "Dune", libraryID)

		_, err = repo.BorrowBook(ctx, reader, bookID)
		require.NoError(t, err)
		require.NoError(t, db.DB.Create(&entities.LibraryMember{LibraryID: libraryID, MemberID: reader}).Error)

		affected, err := repo.DeleteMember(ctx, reader)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		var loans, roster int64
		require.NoError(t, db.DB.Model(&entities.BorrowedBook{}).Where("member_id = ?", reader).Count(&loans).Error)
		require.NoError(t, db.DB.Model(&entities.LibraryMember{}).Where("member_id = ?", reader).Count(&roster).Error)
		assert.Zero(t, loans)
		assert.Zero(t, roster)

		affected, err = repo.DeleteMember(ctx, reader)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})

	t.Run("a library manager cannot be deleted", func(t *testing.T) {
		repo, db := setupTestDB(t)
		ctx := context.Background()
		manager, err := repo.CreateMember(ctx, "Manager", "m@example.com")
		require.NoError(t, err)
		libraryID := createLibrary(t, db, manager, "Central")
		bookID := createBook(t, db, "Dune", libraryID)
		_, err = repo.BorrowBook(ctx, manager, bookID)
		require.NoError(t, err)

		_, err = repo.DeleteMember(ctx, manager)
		assert.ErrorIs(t, err, database.ErrConstraintViolation)

		_, err = repo.GetMemberByID(ctx, manager)
		assert.NoError(t, err)
		borrowed, err := repo.GetBorrowedBooks(ctx, manager, services.AllLibraries())
		require.NoError(t, err)
		assert.Len(t, borrowed, 1, "the rejected delete rolls back the loan removal")
	})
}

func TestRepository_GetMembersByLibrary(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	manager, err := repo.CreateMember(ctx, "Manager", "m@example.com")
	require.NoError(t, err)
	reader, err := repo.CreateMember(ctx, "Reader", "r@example.com")
	require.NoError(t, err)
	libraryID := createLibrary(t, db, manager, "Central")

	members, err := repo.GetMembersByLibrary(ctx, libraryID)
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members, "managing a library does not put the manager on its roster")

	require.NoError(t, db.DB.Create(&entities.LibraryMember{LibraryID: libraryID, MemberID: reader}).Error)

	members, err = repo.GetMembersByLibrary(ctx, libraryID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, reader, members[0].ID)
}

func TestRepository_BorrowBook(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	member, err := repo.CreateMember(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	libraryID := createLibrary(t, db, member, "Central")
	bookID := createBook(t, db, "Dune", libraryID)

	affected, err := repo.BorrowBook(ctx, member, bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var loan entities.BorrowedBook
	require.NoError(t, db.DB.Where("member_id = ? AND book_id = ?", member, bookID).First(&loan).Error)
	_, err = time.Parse(database.TimestampLayout, loan.BorrowedAt)
	assert.NoError(t, err)

	t.Run("borrowing the same title twice conflicts", func(t *testing.T) {
		_, err := repo.BorrowBook(ctx, member, bookID)
		assert.ErrorIs(t, err, database.ErrConflict)

		var count int64
		require.NoError(t, db.DB.Model(&entities.BorrowedBook{}).Where("member_id = ?", member).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown book is rejected", func(t *testing.T) {
		_, err := repo.BorrowBook(ctx, member, 999)
		assert.ErrorIs(t, err, database.ErrConstraintViolation)
	})

	t.Run("copy counts are not checked", func(t *testing.T) {
		other, err := repo.CreateMember(ctx, "Grace", "grace@example.com")
		require.NoError(t, err)

		_, err = repo.BorrowBook(ctx, other, bookID)
		assert.NoError(t, err)
	})
}

func TestRepository_ReturnBook(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	member, err := repo.CreateMember(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	bookID := createBook(t, db, "Dune", createLibrary(t, db, member, "Central"))
	_, err = repo.BorrowBook(ctx, member, bookID)
	require.NoError(t, err)

	affected, err := repo.ReturnBook(ctx, member, bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.ReturnBook(ctx, member, bookID)
	require.NoError(t, err)
	assert.Zero(t, affected, "returning twice is a no-op")

	borrowed, err := repo.GetBorrowedBooks(ctx, member, services.AllLibraries())
	require.NoError(t, err)
	assert.Empty(t, borrowed)

	_, err = repo.BorrowBook(ctx, member, bookID)
	assert.NoError(t, err, "a returned title can be borrowed again")
}

func TestRepository_GetBorrowedBooks(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	member, err := repo.CreateMember(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	central := createLibrary(t, db, member, "Central")
	branch := createLibrary(t, db, member, "Branch")

	dune := createBook(t, db, "Dune", central)
	emma := createBook(t, db, "Emma", branch)
	both := createBook(t, db, "Ulysses", central, branch)
	createBook(t, db, "Walden", central)

	for _, id := range []int64{dune, emma, both} {
		_, err := repo.BorrowBook(ctx, member, id)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter services.LibraryFilter
		want   []int64
	}{
		{"all libraries", services.AllLibraries(), []int64{dune, emma, both}},
		{"wire sentinel", services.LibraryFilterFromWire(services.AllLibrariesSentinel), []int64{dune, emma, both}},
		{"central", services.InLibrary(central), []int64{dune, both}},
		{"branch", services.InLibrary(branch), []int64{emma, both}},
		{"unknown library", services.InLibrary(999), []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := repo.GetBorrowedBooks(ctx, member, tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, books)
			assert.ElementsMatch(t, tt.want, bookIDs(books))
		})
	}

	t.Run("member without loans", func(t *testing.T) {
		other, err := repo.CreateMember(ctx, "Grace", "grace@example.com")
		require.NoError(t, err)

		books, err := repo.GetBorrowedBooks(ctx, other, services.AllLibraries())
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestRepository_BorrowBook_ConcurrentSameTitle(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	member, err := repo.CreateMember(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	bookID := createBook(t, db, "Dune", createLibrary(t, db, member, "Central"))

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.BorrowBook(ctx, member, bookID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, database.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
}
