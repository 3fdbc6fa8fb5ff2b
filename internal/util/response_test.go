package util

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"word missing", fmt.Errorf("grade: %w", ErrWordNotFound), http.StatusNotFound},
		{"empty session", ErrEmptySession, http.StatusBadRequest},
		{"bad enum", fmt.Errorf("pos %q: %w", "x", ErrInvalidEnum), http.StatusBadRequest},
		{"no content", ErrNoContent, http.StatusNotFound},
		{"no content upstream", fmt.Errorf("%w: %w", ErrNoContent, ErrUpstreamUnavailable), http.StatusServiceUnavailable},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 10, ParseLimit("", 10, 100))
	assert.Equal(t, 10, ParseLimit("-3", 10, 100))
	assert.Equal(t, 25, ParseLimit("25", 10, 100))
	assert.Equal(t, 100, ParseLimit("500", 10, 100))
	assert.Equal(t, 500, ParseLimit("500", 10, 0))
}
