// Package memory provides an in-memory implementation of the book, library
// and member stores for tests that should not touch SQLite.
//
// It mirrors the SQLite repositories: foreign keys are checked, duplicate
// composite keys fail with database.ErrConflict, and deletes cascade to the
// join relations the same way.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/entities"
	"github.com/mrlokans/lending/internal/services"
)

type pair struct{ a, b int64 }

// Store holds all relations. The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex

	nextMember, nextLibrary, nextBook int64

	members        map[int64]entities.Member
	libraries      map[int64]entities.Library
	books          map[int64]entities.Book
	libraryBooks   map[pair]int64 // (library, book) -> quantity
	libraryMembers map[pair]struct{}
	borrowed       map[pair]string // (member, book) -> borrowed_at
}

// New returns an empty store.
func New() *Store {
	return &Store{
		members:        make(map[int64]entities.Member),
		libraries:      make(map[int64]entities.Library),
		books:          make(map[int64]entities.Book),
		libraryBooks:   make(map[pair]int64),
		libraryMembers: make(map[pair]struct{}),
		borrowed:       make(map[pair]string),
	}
}

// AddLibraryMember puts a member on a library's roster. The HTTP surface has
// no such operation; tests use it to populate the roster.
func (s *Store) AddLibraryMember(libraryID, memberID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.libraries[libraryID]; !ok {
		return missing("add library member", "library", libraryID)
	}
	if _, ok := s.members[memberID]; !ok {
		return missing("add library member", "member", memberID)
	}
	key := pair{libraryID, memberID}
	if _, ok := s.libraryMembers[key]; ok {
		return fmt.Errorf("add library member: %w", database.ErrConflict)
	}
	s.libraryMembers[key] = struct{}{}
	return nil
}

// Quantity returns the copy count of a library link.
func (s *Store) Quantity(libraryID, bookID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.libraryBooks[pair{libraryID, bookID}]
	return q, ok
}

func missing(op, entity string, id int64) error {
	return fmt.Errorf("%s: %w: %s %d does not exist", op, database.ErrConstraintViolation, entity, id)
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, database.ErrNotFound)
}

// --- Books ---

func (s *Store) CreateBook(_ context.Context, title, author string, libraryID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.libraries[libraryID]; !ok {
		return 0, missing("create book", "library", libraryID)
	}
	s.nextBook++
	now := database.Now()
	s.books[s.nextBook] = entities.Book{ID: s.nextBook, Title: title, Author: author, CreatedAt: now, UpdatedAt: now}
	s.libraryBooks[pair{libraryID, s.nextBook}] = 1
	return s.nextBook, nil
}

func (s *Store) UpdateBook(_ context.Context, id int64, title, author string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[id]
	if !ok {
		return 0, nil
	}
	book.Title, book.Author = title, author
	s.books[id] = book
	return 1, nil
}

func (s *Store) DeleteBook(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return 0, nil
	}
	for key := range s.libraryBooks {
		if key.b == id {
			delete(s.libraryBooks, key)
		}
	}
	for key := range s.borrowed {
		if key.b == id {
			delete(s.borrowed, key)
		}
	}
	delete(s.books, id)
	return 1, nil
}

func (s *Store) GetBookByID(_ context.Context, id int64) (*entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[id]
	if !ok {
		return nil, notFound("get book")
	}
	return &book, nil
}

func (s *Store) GetAllBooks(_ context.Context) ([]entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booksWhere(func(int64) bool { return true }), nil
}

func (s *Store) GetBooksByLibrary(_ context.Context, libraryID int64) ([]entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booksWhere(func(id int64) bool {
		_, ok := s.libraryBooks[pair{libraryID, id}]
		return ok
	}), nil
}

func (s *Store) booksWhere(keep func(id int64) bool) []entities.Book {
	books := []entities.Book{}
	for id, book := range s.books {
		if keep(id) {
			books = append(books, book)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books
}

// --- Libraries ---

func (s *Store) CreateLibrary(_ context.Context, name, address string, managerID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[managerID]; !ok {
		return 0, missing("create library", "member", managerID)
	}
	s.nextLibrary++
	now := database.Now()
	s.libraries[s.nextLibrary] = entities.Library{
		ID: s.nextLibrary, Name: name, Address: address, ManagerID: managerID, CreatedAt: now, UpdatedAt: now,
	}
	return s.nextLibrary, nil
}

func (s *Store) UpdateLibrary(_ context.Context, id int64, name, address string, managerID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	library, ok := s.libraries[id]
	if !ok {
		return 0, nil
	}
	if _, ok := s.members[managerID]; !ok {
		return 0, missing("update library", "member", managerID)
	}
	library.Name, library.Address, library.ManagerID = name, address, managerID
	s.libraries[id] = library
	return 1, nil
}

func (s *Store) DeleteLibrary(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.libraries[id]; !ok {
		return 0, nil
	}
	for key := range s.libraryBooks {
		if key.a == id {
			delete(s.libraryBooks, key)
		}
	}
	for key := range s.libraryMembers {
		if key.a == id {
			delete(s.libraryMembers, key)
		}
	}
	delete(s.libraries, id)
	return 1, nil
}

func (s *Store) GetLibraryByID(_ context.Context, id int64) (*entities.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	library, ok := s.libraries[id]
	if !ok {
		return nil, notFound("get library")
	}
	return &library, nil
}

func (s *Store) GetAllLibraries(_ context.Context) ([]entities.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	libraries := make([]entities.Library, 0, len(s.libraries))
	for _, library := range s.libraries {
		libraries = append(libraries, library)
	}
	sort.Slice(libraries, func(i, j int) bool { return libraries[i].ID < libraries[j].ID })
	return libraries, nil
}

func (s *Store) AddBook(_ context.Context, libraryID, bookID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{libraryID, bookID}
	if _, ok := s.libraryBooks[key]; ok {
		return 0, fmt.Errorf("add book to library: %w", database.ErrConflict)
	}
	if _, ok := s.libraries[libraryID]; !ok {
		return 0, missing("add book to library", "library", libraryID)
	}
	if _, ok := s.books[bookID]; !ok {
		return 0, missing("add book to library", "book", bookID)
	}
	s.libraryBooks[key] = 1
	return 1, nil
}

func (s *Store) SetBookQuantity(_ context.Context, libraryID, bookID, quantity int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{libraryID, bookID}
	if _, ok := s.libraryBooks[key]; !ok {
		return 0, nil
	}
	s.libraryBooks[key] = quantity
	return 1, nil
}

// --- Members ---

func (s *Store) CreateMember(_ context.Context, name, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMember++
	now := database.Now()
	s.members[s.nextMember] = entities.Member{ID: s.nextMember, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	return s.nextMember, nil
}

func (s *Store) UpdateMember(_ context.Context, id int64, name, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.members[id]
	if !ok {
		return 0, nil
	}
	member.Name, member.Email = name, email
	if now := database.Now(); now > member.UpdatedAt {
		member.UpdatedAt = now
	}
	s.members[id] = member
	return 1, nil
}

func (s *Store) DeleteMember(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return 0, nil
	}
	for _, library := range s.libraries {
		if library.ManagerID == id {
			return 0, fmt.Errorf("delete member: %w: member %d manages library %d",
				database.ErrConstraintViolation, id, library.ID)
		}
	}
	for key := range s.borrowed {
		if key.a == id {
			delete(s.borrowed, key)
		}
	}
	for key := range s.libraryMembers {
		if key.b == id {
			delete(s.libraryMembers, key)
		}
	}
	delete(s.members, id)
	return 1, nil
}

func (s *Store) GetMemberByID(_ context.Context, id int64) (*entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.members[id]
	if !ok {
		return nil, notFound("get member")
	}
	return &member, nil
}

func (s *Store) GetAllMembers(_ context.Context) ([]entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.membersWhere(func(int64) bool { return true }), nil
}

func (s *Store) GetMembersByLibrary(_ context.Context, libraryID int64) ([]entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.membersWhere(func(id int64) bool {
		_, ok := s.libraryMembers[pair{libraryID, id}]
		return ok
	}), nil
}

func (s *Store) membersWhere(keep func(id int64) bool) []entities.Member {
	members := []entities.Member{}
	for id, member := range s.members {
		if keep(id) {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members
}

func (s *Store) BorrowBook(_ context.Context, memberID, bookID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{memberID, bookID}
	if _, ok := s.borrowed[key]; ok {
		return 0, fmt.Errorf("borrow book: %w", database.ErrConflict)
	}
	if _, ok := s.members[memberID]; !ok {
		return 0, missing("borrow book", "member", memberID)
	}
	if _, ok := s.books[bookID]; !ok {
		return 0, missing("borrow book", "book", bookID)
	}
	s.borrowed[key] = database.Now()
	return 1, nil
}

func (s *Store) ReturnBook(_ context.Context, memberID, bookID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{memberID, bookID}
	if _, ok := s.borrowed[key]; !ok {
		return 0, nil
	}
	delete(s.borrowed, key)
	return 1, nil
}

func (s *Store) GetBorrowedBooks(_ context.Context, memberID int64, filter services.LibraryFilter) ([]entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	libraryID, filtered := filter.LibraryID()
	return s.booksWhere(func(id int64) bool {
		if _, ok := s.borrowed[pair{memberID, id}]; !ok {
			return false
		}
		if !filtered {
			return true
		}
		_, ok := s.libraryBooks[pair{libraryID, id}]
		return ok
	}), nil
}
