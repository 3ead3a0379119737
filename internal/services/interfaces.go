package services

import (
	"context"
	"strconv"

	"github.com/mrlokans/lending/internal/entities"
)

// BookStore manages catalog entries and their library links.
type BookStore interface {
	CreateBook(ctx context.Context, title, author string, libraryID int64) (int64, error)
	UpdateBook(ctx context.Context, id int64, title, author string) (int64, error)
	DeleteBook(ctx context.Context, id int64) (int64, error)
	GetBookByID(ctx context.Context, id int64) (*entities.Book, error)
	GetAllBooks(ctx context.Context) ([]entities.Book, error)
	GetBooksByLibrary(ctx context.Context, libraryID int64) ([]entities.Book, error)
}

// LibraryStore manages libraries and the copies they hold.
type LibraryStore interface {
	CreateLibrary(ctx context.Context, name, address string, managerID int64) (int64, error)
	UpdateLibrary(ctx context.Context, id int64, name, address string, managerID int64) (int64, error)
	DeleteLibrary(ctx context.Context, id int64) (int64, error)
	GetLibraryByID(ctx context.Context, id int64) (*entities.Library, error)
	GetAllLibraries(ctx context.Context) ([]entities.Library, error)
	AddBook(ctx context.Context, libraryID, bookID int64) (int64, error)
	SetBookQuantity(ctx context.Context, libraryID, bookID, quantity int64) (int64, error)
}

// MemberStore manages members and the loan ledger.
type MemberStore interface {
	CreateMember(ctx context.Context, name, email string) (int64, error)
	UpdateMember(ctx context.Context, id int64, name, email string) (int64, error)
	DeleteMember(ctx context.Context, id int64) (int64, error)
	GetMemberByID(ctx context.Context, id int64) (*entities.Member, error)
	GetAllMembers(ctx context.Context) ([]entities.Member, error)
	GetMembersByLibrary(ctx context.Context, libraryID int64) ([]entities.Member, error)
	BorrowBook(ctx context.Context, memberID, bookID int64) (int64, error)
	ReturnBook(ctx context.Context, memberID, bookID int64) (int64, error)
	GetBorrowedBooks(ctx context.Context, memberID int64, filter LibraryFilter) ([]entities.Book, error)
}

// AllLibrariesSentinel is the wire value meaning "no library filter".
const AllLibrariesSentinel int64 = -1

// LibraryFilter restricts a lookup to one library, or to none.
type LibraryFilter struct {
	id  int64
	set bool
}

// AllLibraries matches books held by any library, or by none.
func AllLibraries() LibraryFilter {
	return LibraryFilter{}
}

// InLibrary matches only books linked to libraryID.
func InLibrary(libraryID int64) LibraryFilter {
	return LibraryFilter{id: libraryID, set: true}
}

// LibraryFilterFromWire converts the external representation, where the
// sentinel means no filter.
func LibraryFilterFromWire(libraryID int64) LibraryFilter {
	if libraryID == AllLibrariesSentinel {
		return AllLibraries()
	}
	return InLibrary(libraryID)
}

// LibraryID returns the filtered library and whether a filter is set.
func (f LibraryFilter) LibraryID() (int64, bool) {
	return f.id, f.set
}

func (f LibraryFilter) String() string {
	if !f.set {
		return "all libraries"
	}
	return "library " + strconv.FormatInt(f.id, 10)
}
