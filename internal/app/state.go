// Package app wires the repositories into the state shared by all requests.
package app

import (
	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/books"
	"github.com/mrlokans/lending/internal/database/libraries"
	"github.com/mrlokans/lending/internal/database/members"
	"github.com/mrlokans/lending/internal/services"
)

// State holds one handle per repository for the lifetime of the process.
// Each handle serializes its own calls, so State is safe to share.
type State struct {
	Books     services.BookStore
	Libraries services.LibraryStore
	Members   services.MemberStore
}

// NewState builds the repositories on top of db. The schema must already
// exist; see database.EnsureSchema.
func NewState(db *database.Database) *State {
	return &State{
		Books:     books.NewRepository(db),
		Libraries: libraries.NewRepository(db),
		Members:   members.NewRepository(db),
	}
}
