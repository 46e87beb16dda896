package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Quota.DefaultCompanionLimit)
	assert.Equal(t, 100, cfg.Quota.MaxPageSize)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "__session", cfg.Identity.SessionCookie)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Security.AllowedOrigins)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.False(t, cfg.IsProduction())
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("MAX_PAGE_SIZE", "lots")

	_, err := Load()
	assert.Error(t, err)
}
