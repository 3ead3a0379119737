package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/services"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// CreatedResponse carries the ID of a newly inserted row.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// AffectedResponse reports how many rows a write touched.
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest          = "bad_request"
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
	CodeConstraintViolation = "constraint_violation"
	CodePoolExhausted       = "pool_exhausted"
	CodeInternal            = "internal"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeBadRequest})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// statusForError maps a store error kind to an HTTP status and error code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, database.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, database.ErrConstraintViolation):
		return http.StatusBadRequest, CodeConstraintViolation
	case errors.Is(err, database.ErrPoolExhausted):
		return http.StatusServiceUnavailable, CodePoolExhausted
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// respondStoreError translates a repository error into a response.
// Unclassified failures are logged and hidden behind a generic message.
func respondStoreError(c *gin.Context, err error, context string) {
	status, code := statusForError(err)
	if status == http.StatusInternalServerError {
		respondInternalError(c, err, context)
		return
	}
	if status == http.StatusServiceUnavailable {
		log.Printf("Store unavailable (%s): %v", context, err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with the new row's ID.
func respondCreated(c *gin.Context, id int64) {
	c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}

// respondAffected sends the number of rows a write touched. A write that
// matched nothing is reported as a missing resource.
func respondAffected(c *gin.Context, affected int64, resource string) {
	if affected == 0 {
		respondNotFound(c, resource)
		return
	}
	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates a positive integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
	if err != nil || id < 1 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}

// parseLibraryFilter reads the optional library_id path segment of the
// borrowed books route. A missing segment and the -1 sentinel both mean
// every library.
func parseLibraryFilter(c *gin.Context) (services.LibraryFilter, bool) {
	raw := c.Param("library_id")
	if raw == "" {
		return services.AllLibraries(), true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || (id < 1 && id != services.AllLibrariesSentinel) {
		respondBadRequest(c, "invalid library_id")
		return services.LibraryFilter{}, false
	}
	return services.LibraryFilterFromWire(id), true
}

// bindJSON decodes and validates the request body, responding 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
