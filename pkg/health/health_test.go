package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"companion-app/frontend/pkg/resilience"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, c *Checker) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", c.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestDatabaseDownIsUnhealthy(t *testing.T) {
	c := NewChecker(nil, time.Second)
	dbErr := errors.New("connection refused")
	c.RegisterDatabaseCheck(func(context.Context) error { return dbErr })
	c.RunChecks(context.Background())

	assert.False(t, c.IsSystemHealthy())
	code, body := serve(t, c)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])

	db := c.GetStatus()["database"]
	assert.Equal(t, StatusDown, db.Status)
	assert.Equal(t, "connection refused", db.Error)

	dbErr = nil
	c.RunChecks(context.Background())
	assert.True(t, c.IsSystemHealthy())
	code, _ = serve(t, c)
	assert.Equal(t, http.StatusOK, code)
}

func TestNonCriticalFailuresKeepSystemHealthy(t *testing.T) {
	c := NewChecker(nil, 200*time.Millisecond)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	c.RegisterRedisCheck(client)

	cb := resilience.NewCircuitBreaker(resilience.Config{Name: "identity", FailureThreshold: 1, RetryTimeout: time.Hour}, nil)
	_ = cb.Execute(context.Background(), func(context.Context) error { return errors.New("boom") })
	c.RegisterBreakerCheck("identity-entitlements", cb)

	c.RunChecks(context.Background())

	status := c.GetStatus()
	assert.Equal(t, StatusDegraded, status["redis"].Status)
	assert.NotEmpty(t, status["redis"].Error)
	assert.Equal(t, StatusDegraded, status["identity-entitlements"].Status)
	assert.Equal(t, "open", status["identity-entitlements"].Details["state"])
	assert.True(t, c.IsSystemHealthy())
}

func TestUncheckedComponentsReportDown(t *testing.T) {
	c := NewChecker(nil, 0)
	c.RegisterCheck("custom", false, func(context.Context) (Status, string, map[string]any, error) {
		return StatusUp, "fine", nil, nil
	})

	assert.Equal(t, StatusDown, c.GetStatus()["custom"].Status)
	assert.True(t, c.IsSystemHealthy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx, time.Hour)
	assert.Eventually(t, func() bool {
		return c.GetStatus()["custom"].Status == StatusUp
	}, time.Second, 10*time.Millisecond)
}
