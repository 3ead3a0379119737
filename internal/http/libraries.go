package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/services"
)

// LibrariesController serves branches and the copies they stock.
type LibrariesController struct {
	libraries services.LibraryStore
}

func NewLibrariesController(libraries services.LibraryStore) *LibrariesController {
	return &LibrariesController{libraries: libraries}
}

type LibraryRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	ManagerID int64  `json:"manager_id" binding:"required,min=1"`
}

type SetQuantityRequest struct {
	Quantity *int64 `json:"quantity" binding:"required,min=0"`
}

// CreateLibrary handles POST /libraries
func (lc *LibrariesController) CreateLibrary(c *gin.Context) {
	var req LibraryRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := lc.libraries.CreateLibrary(c.Request.Context(), req.Name, req.Address, req.ManagerID)
	if err != nil {
		respondStoreError(c, err, "create library")
		return
	}
	respondCreated(c, id)
}

// GetAllLibraries handles GET /libraries
func (lc *LibrariesController) GetAllLibraries(c *gin.Context) {
	libraries, err := lc.libraries.GetAllLibraries(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "list libraries")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"libraries": libraries, "count": len(libraries)})
}

// GetLibrary handles GET /libraries/:id
func (lc *LibrariesController) GetLibrary(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	library, err := lc.libraries.GetLibraryByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "get library")
		return
	}
	c.IndentedJSON(http.StatusOK, library)
}

// UpdateLibrary handles PUT /libraries/:id
func (lc *LibrariesController) UpdateLibrary(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req LibraryRequest
	if !bindJSON(c, &req) {
		return
	}

	affected, err := lc.libraries.UpdateLibrary(c.Request.Context(), id, req.Name, req.Address, req.ManagerID)
	if err != nil {
		respondStoreError(c, err, "update library")
		return
	}
	respondAffected(c, affected, "library")
}

// DeleteLibrary handles DELETE /libraries/:id
func (lc *LibrariesController) DeleteLibrary(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	affected, err := lc.libraries.DeleteLibrary(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "delete library")
		return
	}
	respondAffected(c, affected, "library")
}

// AddBook handles POST /libraries/:id/books/:book_id
func (lc *LibrariesController) AddBook(c *gin.Context) {
	libraryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	affected, err := lc.libraries.AddBook(c.Request.Context(), libraryID, bookID)
	if err != nil {
		respondStoreError(c, err, "add book to library")
		return
	}
	c.JSON(http.StatusCreated, AffectedResponse{Affected: affected})
}

// SetBookQuantity handles PUT /libraries/:id/books/:book_id
func (lc *LibrariesController) SetBookQuantity(c *gin.Context) {
	libraryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}
	var req SetQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	affected, err := lc.libraries.SetBookQuantity(c.Request.Context(), libraryID, bookID, *req.Quantity)
	if err != nil {
		respondStoreError(c, err, "set book quantity")
		return
	}
	respondAffected(c, affected, "library book")
}
