package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"companion-app/frontend/api"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *OpenAPIValidator {
	t.Helper()
	v, err := NewOpenAPIValidatorFromData(api.Schema)
	require.NoError(t, err)
	return v
}

func TestValidateRequest(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.ValidateRequest(httptest.NewRequest(http.MethodGet, "/api/v1/companions?limit=5&subject=maths", nil)))
	assert.Error(t, v.ValidateRequest(httptest.NewRequest(http.MethodGet, "/api/v1/companions?limit=0", nil)))
	assert.Error(t, v.ValidateRequest(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/recent?limit=abc", nil)))

	// outside the document
	assert.NoError(t, v.ValidateRequest(httptest.NewRequest(http.MethodGet, "/companions?limit=0", nil)))

	body := httptest.NewRequest(http.MethodPost, "/api/v1/companions", strings.NewReader(`{"name":"Neura","duration":"long"}`))
	body.Header.Set("Content-Type", "application/json")
	assert.Error(t, v.ValidateRequest(body))

	body = httptest.NewRequest(http.MethodPost, "/api/v1/companions", strings.NewReader(`{"name":"Neura","duration":15}`))
	body.Header.Set("Content-Type", "application/json")
	assert.NoError(t, v.ValidateRequest(body))
}

func TestValidateResponse(t *testing.T) {
	v := newValidator(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/permissions/companions", nil)
	header := http.Header{"Content-Type": []string{"application/json"}}

	assert.NoError(t, v.ValidateResponse(req, http.StatusOK, header, []byte(`{"success":true,"data":false}`)))
	assert.NoError(t, v.ValidateResponse(req, http.StatusUnauthorized, header, []byte(`{"success":false,"message":"Authentication required."}`)))
	assert.Error(t, v.ValidateResponse(req, http.StatusOK, header, []byte(`{"success":true}`)))
	assert.Error(t, v.ValidateResponse(req, http.StatusTeapot, header, []byte(`{"success":false,"message":"x"}`)))
}

func TestMiddlewareRejectsInvalidRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newValidator(t)

	r := gin.New()
	r.Use(v.Middleware())
	r.GET("/api/v1/companions", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companions?page=-2", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companions?page=2", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNewOpenAPIValidatorMissingFile(t *testing.T) {
	_, err := NewOpenAPIValidator("/does/not/exist.yaml")
	assert.Error(t, err)
}
