package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"companion-app/frontend/pkg/jwt"
	"companion-app/frontend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverBearerAndCookie(t *testing.T) {
	tokens := jwt.NewService("secret", "", time.Hour)
	token, err := tokens.GenerateToken("user_1", jwt.Claims{Plan: "u:pro", Features: "u:3_companion_limit"})
	require.NoError(t, err)
	r := NewResolver(tokens, "__session")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	id, err := r.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "user_1", id.UserID)
	assert.True(t, id.Entitlements.HasPlan("pro"))
	assert.True(t, id.Entitlements.HasFeature("3_companion_limit"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: token})
	id, err = r.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "user_1", id.UserID)
}

func TestResolverAnonymousAndInvalid(t *testing.T) {
	r := NewResolver(jwt.NewService("secret", "", time.Hour), "__session")

	id, err := r.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.False(t, id.Authenticated())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	id, err = r.Resolve(req)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	assert.False(t, id.Authenticated())
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.NewService("secret", "", time.Hour)
	token, err := tokens.GenerateToken("user_9", jwt.Claims{})
	require.NoError(t, err)

	router := gin.New()
	router.Use(logger.Middleware(logger.Discard()), Middleware(NewResolver(tokens, "__session")))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, "user_9", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestProviderFetchesAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/users/user_1/entitlements", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entitlementsResponse{Features: []string{"10_companion_limit"}})
	}))
	defer srv.Close()

	p := NewProvider(ProviderConfig{BaseURL: srv.URL, APIKey: "key", Timeout: time.Second, CacheTTL: time.Minute}, logger.Discard())
	id := Identity{UserID: "user_1"}

	ent, err := p.Entitlements(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ent.HasFeature("10_companion_limit"))

	_, err = p.Entitlements(context.Background(), id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestProviderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewProvider(ProviderConfig{BaseURL: srv.URL, Timeout: time.Second, CacheTTL: time.Minute}, logger.Discard())
	_, err := p.Entitlements(context.Background(), Identity{UserID: "user_1"})
	assert.Error(t, err)
}

func TestClaimsSource(t *testing.T) {
	id := Identity{UserID: "u", Entitlements: Entitlements{Permissions: []string{"p"}}}
	ent, err := ClaimsSource{}.Entitlements(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ent.HasPermission("p"))
}
