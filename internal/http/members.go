package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/services"
)

// MembersController serves members and their loans.
type MembersController struct {
	members services.MemberStore
}

func NewMembersController(members services.MemberStore) *MembersController {
	return &MembersController{members: members}
}

type MemberRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// CreateMember handles POST /members
func (mc *MembersController) CreateMember(c *gin.Context) {
	var req MemberRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := mc.members.CreateMember(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondStoreError(c, err, "create member")
		return
	}
	respondCreated(c, id)
}

// GetAllMembers handles GET /members
func (mc *MembersController) GetAllMembers(c *gin.Context) {
	members, err := mc.members.GetAllMembers(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "list members")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"members": members, "count": len(members)})
}

// GetMember handles GET /members/:id
func (mc *MembersController) GetMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := mc.members.GetMemberByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "get member")
		return
	}
	c.IndentedJSON(http.StatusOK, member)
}

// UpdateMember handles PUT /members/:id
func (mc *MembersController) UpdateMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MemberRequest
	if !bindJSON(c, &req) {
		return
	}

	affected, err := mc.members.UpdateMember(c.Request.Context(), id, req.Name, req.Email)
	if err != nil {
		respondStoreError(c, err, "update member")
		return
	}
	respondAffected(c, affected, "member")
}

// DeleteMember handles DELETE /members/:id
func (mc *MembersController) DeleteMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	affected, err := mc.members.DeleteMember(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "delete member")
		return
	}
	respondAffected(c, affected, "member")
}

// GetMembersByLibrary handles GET /libraries/:id/members
func (mc *MembersController) GetMembersByLibrary(c *gin.Context) {
	libraryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := mc.members.GetMembersByLibrary(c.Request.Context(), libraryID)
	if err != nil {
		respondStoreError(c, err, "list members by library")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"members": members, "count": len(members)})
}

// BorrowBook handles POST /members/:id/books/:book_id
func (mc *MembersController) BorrowBook(c *gin.Context) {
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	affected, err := mc.members.BorrowBook(c.Request.Context(), memberID, bookID)
	if err != nil {
		respondStoreError(c, err, "borrow book")
		return
	}
	c.JSON(http.StatusCreated, AffectedResponse{Affected: affected})
}

// ReturnBook handles DELETE /members/:id/books/:book_id
// Returning a book that is not on loan is not an error; it reports 0 rows.
func (mc *MembersController) ReturnBook(c *gin.Context) {
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	affected, err := mc.members.ReturnBook(c.Request.Context(), memberID, bookID)
	if err != nil {
		respondStoreError(c, err, "return book")
		return
	}
	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}

// GetBorrowedBooks handles GET /members/:id/borrowed_books[/:library_id]
func (mc *MembersController) GetBorrowedBooks(c *gin.Context) {
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := parseLibraryFilter(c)
	if !ok {
		return
	}

	books, err := mc.members.GetBorrowedBooks(c.Request.Context(), memberID, filter)
	if err != nil {
		respondStoreError(c, err, "list borrowed books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}
