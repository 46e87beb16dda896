package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestKindStatusCodes(t *testing.T) {
	cases := map[Kind]int{
		KindAuthRequired: http.StatusUnauthorized,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInvalidInput: http.StatusBadRequest,
		KindForbidden:    http.StatusForbidden,
		KindStore:        http.StatusInternalServerError,
		KindUnexpected:   http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.StatusCode(), kind)
	}
}

func TestFromErrorHidesInternalText(t *testing.T) {
	assert.Nil(t, FromError(nil))

	appErr := FromError(errors.New("pq: password authentication failed"))
	assert.Equal(t, KindUnexpected, appErr.Kind)
	assert.Equal(t, "An unexpected error occurred.", appErr.Message)

	wrapped := fmt.Errorf("ctx: %w", New(KindConflict, "dup"))
	assert.Equal(t, KindConflict, FromError(wrapped).Kind)
	assert.Equal(t, http.StatusConflict, GetStatusCode(wrapped))
	assert.Equal(t, "dup", GetErrorMessage(wrapped))
	assert.True(t, Is(wrapped, New(KindConflict, "other")))
	assert.Equal(t, "An unexpected error occurred.", GetErrorMessage(errors.New("x")))
}

func TestErrorHandlerRendersEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(), RecoveryWithLogger())
	r.GET("/limited", func(c *gin.Context) {
		_ = c.Error(NewTooManyRequestsError("RATE_LIMIT_EXCEEDED", "Too many requests."))
	})
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Too many requests.","code":"RATE_LIMIT_EXCEEDED"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred.")
}
