package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseIDParam_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "123"}}

	id, ok := parseIDParam(c, "id")

	assert.True(t, ok)
	assert.Equal(t, int64(123), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	for _, value := range []string{"abc", "-1", "0", ""} {
		t.Run(value, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: value}}

			id, ok := parseIDParam(c, "id")

			assert.False(t, ok)
			assert.Zero(t, id)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "invalid id")
		})
	}
}

func TestParseLibraryFilter(t *testing.T) {
	tests := []struct {
		name   string
		params gin.Params
		want   services.LibraryFilter
		ok     bool
	}{
		{"missing", nil, services.AllLibraries(), true},
		{"sentinel", gin.Params{{Key: "library_id", Value: "-1"}}, services.AllLibraries(), true},
		{"library", gin.Params{{Key: "library_id", Value: "7"}}, services.InLibrary(7), true},
		{"other negative", gin.Params{{Key: "library_id", Value: "-2"}}, services.LibraryFilter{}, false},
		{"not a number", gin.Params{{Key: "library_id", Value: "main"}}, services.LibraryFilter{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = tt.params

			filter, ok := parseLibraryFilter(c)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, filter)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("get book: %w", database.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("borrow book: %w", database.ErrConflict), http.StatusConflict, CodeConflict},
		{fmt.Errorf("create book: %w", database.ErrConstraintViolation), http.StatusBadRequest, CodeConstraintViolation},
		{fmt.Errorf("list books: %w", database.ErrPoolExhausted), http.StatusServiceUnavailable, CodePoolExhausted},
		{fmt.Errorf("list books: %w", database.ErrTransactionFailed), http.StatusInternalServerError, CodeInternal},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code := statusForError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestRespondStoreError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondStoreError(c, errors.New("disk I/O error at /var/lib"), "test")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "/var/lib")
	assert.Contains(t, w.Body.String(), `"code":"internal"`)
}

func TestRespondAffected(t *testing.T) {
	t.Run("rows touched", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondAffected(c, 1, "book")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"affected":1}`, w.Body.String())
	})

	t.Run("nothing matched", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondAffected(c, 0, "book")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "book not found")
	})
}
