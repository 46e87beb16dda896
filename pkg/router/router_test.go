package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"companion-app/frontend/pkg/config"
	"companion-app/frontend/pkg/di"
	"companion-app/frontend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("IDENTITY_JWT_SECRET", "")

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.Driver = "memory"
	cfg.Identity.JWTSecret = "secret"
	cfg.Identity.SessionCookie = "__session"
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = time.Minute
	cfg.Cache.PurgeWindow = time.Minute
	cfg.Quota.DefaultCompanionLimit = 5
	cfg.Quota.MaxPageSize = 100
	cfg.Security.RateLimit = 1000
	cfg.Security.RateLimitBurst = 1000
	cfg.Security.AllowedOrigins = []string{"https://app.example.com"}
	cfg.Telemetry.ServiceName = "test"
	cfg.Telemetry.MetricsEnabled = true

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	container, err := di.New(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	r := New(ctx, container)
	r.SetupRoutes()
	return r
}

func (r *Router) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)
	return w
}

func TestHealthAndInfo(t *testing.T) {
	r := newRouter(t)

	w := r.serve(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = r.serve(httptest.NewRequest(http.MethodGet, "/api/info", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"test"`)
}

func TestAPIRoutesAreValidated(t *testing.T) {
	r := newRouter(t)

	w := r.serve(httptest.NewRequest(http.MethodGet, "/api/v1/companions?limit=3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = r.serve(httptest.NewRequest(http.MethodGet, "/api/v1/companions?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request")

	w = r.serve(httptest.NewRequest(http.MethodGet, "/api/v1/me/bookmarks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Authentication required."}`, w.Body.String())

	w = r.serve(httptest.NewRequest(http.MethodGet, "/api/docs/openapi.yaml", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "openapi: 3.0.3"))
}

func TestPagesAndMetrics(t *testing.T) {
	r := newRouter(t)

	w := r.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = r.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = r.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "companion_operations")
}

func TestCORS(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/companions", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := r.serve(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = r.serve(req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
