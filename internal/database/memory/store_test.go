package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/services"
)

func TestStore_BookLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateBook(ctx, "Dune", "Frank Herbert", 1)
	assert.ErrorIs(t, err, database.ErrConstraintViolation, "library must exist")

	manager, err := s.CreateMember(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	libraryID, err := s.CreateLibrary(ctx, "Central", "1 Main St", manager)
	require.NoError(t, err)

	bookID, err := s.CreateBook(ctx, "Dune", "Frank Herbert", libraryID)
	require.NoError(t, err)
	q, ok := s.Quantity(libraryID, bookID)
	require.True(t, ok)
	assert.Equal(t, int64(1), q)

	affected, err := s.UpdateBook(ctx, bookID, "Dune Messiah", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	book, err := s.GetBookByID(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", book.Title)

	_, err = s.BorrowBook(ctx, manager, bookID)
	require.NoError(t, err)

	affected, err = s.DeleteBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, ok = s.Quantity(libraryID, bookID)
	assert.False(t, ok)
	borrowed, err := s.GetBorrowedBooks(ctx, manager, services.AllLibraries())
	require.NoError(t, err)
	assert.Empty(t, borrowed)

	_, err = s.GetBookByID(ctx, bookID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStore_LibraryLinks(t *testing.T) {
	s := New()
	ctx := context.Background()
	manager, _ := s.CreateMember(ctx, "Ada", "ada@example.com")
	central, _ := s.CreateLibrary(ctx, "Central", "1 Main St", manager)
	branch, _ := s.CreateLibrary(ctx, "Branch", "2 Side St", manager)
	bookID, err := s.CreateBook(ctx, "Dune", "Frank Herbert", central)
	require.NoError(t, err)

	_, err = s.AddBook(ctx, central, bookID)
	assert.ErrorIs(t, err, database.ErrConflict)

	affected, err := s.AddBook(ctx, branch, bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = s.SetBookQuantity(ctx, branch, bookID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	q, _ := s.Quantity(branch, bookID)
	assert.Equal(t, int64(5), q)

	affected, err = s.SetBookQuantity(ctx, branch, 999, 5)
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = s.DeleteLibrary(ctx, branch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	books, err := s.GetBooksByLibrary(ctx, branch)
	require.NoError(t, err)
	assert.Empty(t, books)
	books, err = s.GetBooksByLibrary(ctx, central)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestStore_Members(t *testing.T) {
	s := New()
	ctx := context.Background()
	manager, _ := s.CreateMember(ctx, "Ada", "ada@example.com")
	reader, _ := s.CreateMember(ctx, "Grace", "grace@example.com")
	libraryID, _ := s.CreateLibrary(ctx, "Central", "1 Main St", manager)
	bookID, _ := s.CreateBook(ctx, "Dune", "Frank Herbert", libraryID)

	_, err := s.BorrowBook(ctx, reader, bookID)
	require.NoError(t, err)
	_, err = s.BorrowBook(ctx, reader, bookID)
	assert.ErrorIs(t, err, database.ErrConflict)

	borrowed, err := s.GetBorrowedBooks(ctx, reader, services.InLibrary(libraryID))
	require.NoError(t, err)
	assert.Len(t, borrowed, 1)
	borrowed, err = s.GetBorrowedBooks(ctx, reader, services.InLibrary(999))
	require.NoError(t, err)
	assert.Empty(t, borrowed)

	require.NoError(t, s.AddLibraryMember(libraryID, reader))
	roster, err := s.GetMembersByLibrary(ctx, libraryID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, reader, roster[0].ID)

	_, err = s.DeleteMember(ctx, manager)
	assert.ErrorIs(t, err, database.ErrConstraintViolation)

	affected, err := s.DeleteMember(ctx, reader)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	roster, err = s.GetMembersByLibrary(ctx, libraryID)
	require.NoError(t, err)
	assert.Empty(t, roster)

	affected, err = s.ReturnBook(ctx, reader, bookID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestStore_ListsAreOrderedByID(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, name := range []string{"c", "a", "b"} {
		_, err := s.CreateMember(ctx, name, name+"@example.com")
		require.NoError(t, err)
	}

	members, err := s.GetAllMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 3)
	for i, m := range members {
		assert.Equal(t, int64(i+1), m.ID)
	}
}
