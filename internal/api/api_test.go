package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"companion-app/frontend/internal/identity"
	"companion-app/frontend/internal/quota"
	"companion-app/frontend/internal/repository/memory"
	"companion-app/frontend/internal/revalidate"
	"companion-app/frontend/internal/service"
	"companion-app/frontend/pkg/jwt"
	"companion-app/frontend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type fixture struct {
	router   *gin.Engine
	tokens   *jwt.Service
	recorder *revalidate.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Discard()
	store := memory.NewStore()
	recorder := &revalidate.Recorder{}
	in := service.NewInstrumentation(log, nil)
	tokens := jwt.NewService("secret", "", time.Hour)

	permissions := service.NewPermissionService(store.Companions(), identity.ClaimsSource{}, quota.Policy{DefaultLimit: 2}, in)
	companions := service.NewCompanionService(store.Companions(), recorder, 100, in).WithCreationGate(permissions)

	router := gin.New()
	router.Use(identity.Middleware(identity.NewResolver(tokens, "__session")))
	v1 := router.Group("/api/v1")
	NewCompanionHandler(companions).RegisterRoutes(v1)
	NewSessionHandler(service.NewSessionService(store.Sessions(), recorder, 3, in)).RegisterRoutes(v1)
	NewBookmarkHandler(service.NewBookmarkService(store.Bookmarks(), recorder, in)).RegisterRoutes(v1)
	NewPermissionHandler(permissions).RegisterRoutes(v1)

	return &fixture{router: router, tokens: tokens, recorder: recorder}
}

func (f *fixture) call(t *testing.T, method, path, body, userID string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		token, err := f.tokens.GenerateToken(userID, jwt.Claims{})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (f *fixture) create(t *testing.T, userID, name string) string {
	t.Helper()
	code, env := f.call(t, http.MethodPost, "/api/v1/companions",
		`{"name":"`+name+`","subject":"maths","topic":"Algebra","voice":"female","style":"casual","duration":15}`, userID)
	require.Equal(t, http.StatusCreated, code, env.Message)

	var c struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &c))
	return c.ID
}

func TestCreateAndFetchCompanion(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "user_1", "Neura")

	code, env := f.call(t, http.MethodGet, "/api/v1/companions/"+id, "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"name":"Neura"`)
	assert.Equal(t, []string{"/", "/companions"}, f.recorder.Paths())

	code, env = f.call(t, http.MethodGet, "/api/v1/companions/not-a-uuid", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Companion not found.", env.Message)
}

func TestCreateCompanionFailures(t *testing.T) {
	f := newFixture(t)

	code, env := f.call(t, http.MethodPost, "/api/v1/companions", `{"name":"Neura"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	assert.Equal(t, "Authentication required.", env.Message)

	code, env = f.call(t, http.MethodPost, "/api/v1/companions", `{`, "user_1")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid companion details.", env.Message)

	f.create(t, "user_1", "Neura")
	code, env = f.call(t, http.MethodPost, "/api/v1/companions",
		`{"name":"Neura","subject":"maths","topic":"Algebra","voice":"female","style":"casual","duration":15}`, "user_1")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "A companion with this name already exists.", env.Message)
}

func TestCreateCompanionRespectsQuota(t *testing.T) {
	f := newFixture(t)
	f.create(t, "user_1", "One")
	f.create(t, "user_1", "Two")

	code, env := f.call(t, http.MethodPost, "/api/v1/companions",
		`{"name":"Three","subject":"maths","topic":"Algebra","voice":"female","style":"casual","duration":15}`, "user_1")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Companion limit reached.", env.Message)

	code, env = f.call(t, http.MethodGet, "/api/v1/me/permissions/companions", "", "user_1")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "false", string(env.Data))

	code, env = f.call(t, http.MethodGet, "/api/v1/me/permissions/companions", "", "user_2")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "true", string(env.Data))

	code, _ = f.call(t, http.MethodGet, "/api/v1/me/permissions/companions/new", "", "user_1")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestListCompanionsFilters(t *testing.T) {
	f := newFixture(t)
	f.create(t, "user_1", "Neura")
	f.create(t, "user_2", "Countsy")

	code, env := f.call(t, http.MethodGet, "/api/v1/companions?topic=countsy", "", "")
	require.Equal(t, http.StatusOK, code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Countsy", list[0]["name"])

	code, env = f.call(t, http.MethodGet, "/api/v1/me/companions", "", "user_2")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestSessionsAndBookmarks(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "user_1", "Neura")

	code, env := f.call(t, http.MethodPost, "/api/v1/companions/"+id+"/sessions", "", "user_2")
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = f.call(t, http.MethodGet, "/api/v1/sessions/recent?limit=5", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Neura")

	code, env = f.call(t, http.MethodGet, "/api/v1/me/sessions", "", "user_2")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Neura")

	code, _ = f.call(t, http.MethodGet, "/api/v1/me/sessions", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = f.call(t, http.MethodPost, "/api/v1/companions/"+id+"/bookmark", `{"path":"/companions"}`, "user_2")
	require.Equal(t, http.StatusCreated, code)

	code, env = f.call(t, http.MethodPost, "/api/v1/companions/"+id+"/bookmark", `{"path":"/companions"}`, "user_2")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "This companion is already bookmarked.", env.Message)

	code, env = f.call(t, http.MethodGet, "/api/v1/me/bookmarks", "", "user_2")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Neura")

	code, _ = f.call(t, http.MethodDelete, "/api/v1/companions/"+id+"/bookmark?path=/my-journey", "", "user_2")
	require.Equal(t, http.StatusOK, code)

	code, env = f.call(t, http.MethodGet, "/api/v1/me/bookmarks", "", "user_2")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(env.Data))

	assert.Equal(t, []string{"/", "/companions", "/", "/companions", "/my-journey"}, f.recorder.Paths())
}

func TestSessionLimitIsCapped(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, "user_1", "Neura")
	for i := 0; i < 5; i++ {
		code, env := f.call(t, http.MethodPost, "/api/v1/companions/"+id+"/sessions", "", "user_1")
		require.Equal(t, http.StatusCreated, code, env.Message)
	}

	for _, path := range []string{"/api/v1/sessions/recent?limit=1000000000", "/api/v1/me/sessions?limit=9223372036854775807"} {
		code, env := f.call(t, http.MethodGet, path, "", "user_1")
		require.Equal(t, http.StatusOK, code, path)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Len(t, list, 3, path)
	}
}

func TestLimitParam(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=3", nil)
	assert.Equal(t, 3, limitParam(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=-1", nil)
	assert.Equal(t, 10, limitParam(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, 10, limitParam(c))
}
