package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books)
	librariesController := NewLibrariesController(cfg.Libraries)
	membersController := NewMembersController(cfg.Members)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Books
	router.POST("/books", booksController.CreateBook)
	router.GET("/books", booksController.GetAllBooks)
	router.GET("/books/:id", booksController.GetBook)
	router.PUT("/books/:id", booksController.UpdateBook)
	router.DELETE("/books/:id", booksController.DeleteBook)

	// Libraries and their stock
	router.POST("/libraries", librariesController.CreateLibrary)
	router.GET("/libraries", librariesController.GetAllLibraries)
	router.GET("/libraries/:id", librariesController.GetLibrary)
	router.PUT("/libraries/:id", librariesController.UpdateLibrary)
	router.DELETE("/libraries/:id", librariesController.DeleteLibrary)
	router.GET("/libraries/:id/books", booksController.GetBooksByLibrary)
	router.POST("/libraries/:id/books/:book_id", librariesController.AddBook)
	router.PUT("/libraries/:id/books/:book_id", librariesController.SetBookQuantity)
	router.GET("/libraries/:id/members", membersController.GetMembersByLibrary)

	// Members and loans
	router.POST("/members", membersController.CreateMember)
	router.GET("/members", membersController.GetAllMembers)
	router.GET("/members/:id", membersController.GetMember)
	router.PUT("/members/:id", membersController.UpdateMember)
	router.DELETE("/members/:id", membersController.DeleteMember)
	router.POST("/members/:id/books/:book_id", membersController.BorrowBook)
	router.DELETE("/members/:id/books/:book_id", membersController.ReturnBook)
	router.GET("/members/:id/borrowed_books", membersController.GetBorrowedBooks)
	router.GET("/members/:id/borrowed_books/:library_id", membersController.GetBorrowedBooks)

	// Maintenance endpoints
	if cfg.Integrity != nil {
		integrityController := NewIntegrityController(cfg.Integrity, cfg.SweepScheduler)
		router.GET("/admin/orphans", integrityController.CountOrphans)
		router.POST("/admin/orphans/sweep", integrityController.SweepOrphans)
		router.GET("/admin/sweep/status", integrityController.SweepStatus)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/tasks/types", tasksController.ListTaskTypes)
		router.GET("/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/tasks/:id/run", tasksController.RunTask)
	}

	return router
}
