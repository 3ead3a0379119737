package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/services"
)

type BooksController struct {
	books services.BookStore
}

func NewBooksController(books services.BookStore) *BooksController {
	return &BooksController{
		books: books,
	}
}

// CreateBookRequest adds a title to the catalog and stocks one copy in a library.
type CreateBookRequest struct {
	Title     string `json:"title" binding:"required"`
	Author    string `json:"author" binding:"required"`
	LibraryID int64  `json:"library_id" binding:"required,min=1"`
}

type UpdateBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

// CreateBook handles POST /books
func (controller *BooksController) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := controller.books.CreateBook(c.Request.Context(), req.Title, req.Author, req.LibraryID)
	if err != nil {
		respondStoreError(c, err, "create book")
		return
	}
	respondCreated(c, id)
}

// GetAllBooks handles GET /books
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.books.GetAllBooks(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetBook handles GET /books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.books.GetBookByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "get book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// UpdateBook handles PUT /books/:id
func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	affected, err := controller.books.UpdateBook(c.Request.Context(), id, req.Title, req.Author)
	if err != nil {
		respondStoreError(c, err, "update book")
		return
	}
	respondAffected(c, affected, "book")
}

// DeleteBook handles DELETE /books/:id
func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	affected, err := controller.books.DeleteBook(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "delete book")
		return
	}
	respondAffected(c, affected, "book")
}

// GetBooksByLibrary handles GET /libraries/:id/books
func (controller *BooksController) GetBooksByLibrary(c *gin.Context) {
	libraryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := controller.books.GetBooksByLibrary(c.Request.Context(), libraryID)
	if err != nil {
		respondStoreError(c, err, "list books by library")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}
