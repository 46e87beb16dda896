package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Identity  IdentityConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Quota     QuotaConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Vault     VaultConfig
	Telemetry TelemetryConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port              string        `env:"PORT" envDefault:"8081"`
	Env               string        `env:"APP_ENV" envDefault:"development"`
	BaseURL           string        `env:"BASE_URL" envDefault:"http://localhost:8081"`
	ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	OpenAPISchemaPath string        `env:"OPENAPI_SCHEMA_PATH"`
}

// DatabaseConfig configures the hosted Postgres connection.
type DatabaseConfig struct {
	// Driver selects the store: "postgres" or "memory" (local development only).
	Driver     string        `env:"DB_DRIVER" envDefault:"postgres"`
	Host       string        `env:"DB_HOST" envDefault:"localhost"`
	Port       string        `env:"DB_PORT" envDefault:"5432"`
	User       string        `env:"DB_USER" envDefault:"postgres"`
	Password   string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name       string        `env:"DB_NAME" envDefault:"companions"`
	SSLMode    string        `env:"DB_SSL_MODE" envDefault:"require"`
	MaxConns   int           `env:"DB_MAX_CONNS" envDefault:"20"`
	Retries    int           `env:"DB_CONNECT_RETRIES" envDefault:"5"`
	RetryDelay time.Duration `env:"DB_CONNECT_RETRY_DELAY" envDefault:"5s"`
}

// DSN renders the libpq-style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// IdentityConfig configures the hosted identity provider.
type IdentityConfig struct {
	// JWTSecret verifies session tokens issued by the provider.
	JWTSecret string `env:"IDENTITY_JWT_SECRET"`
	// Issuer, when set, must match the token's iss claim.
	Issuer string `env:"IDENTITY_ISSUER"`
	// APIURL enables live entitlement lookups; empty means token claims only.
	APIURL         string        `env:"IDENTITY_API_URL"`
	APIKey         string        `env:"IDENTITY_API_KEY"`
	APITimeout     time.Duration `env:"IDENTITY_API_TIMEOUT" envDefault:"5s"`
	EntitlementTTL time.Duration `env:"IDENTITY_ENTITLEMENT_TTL" envDefault:"1m"`
	SessionCookie  string        `env:"IDENTITY_SESSION_COOKIE" envDefault:"__session"`
}

// RedisConfig configures the revalidation fan-out. Empty Addr disables it.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Channel  string `env:"REDIS_REVALIDATE_CHANNEL" envDefault:"companions:revalidate"`
}

// CacheConfig configures the rendered page cache.
type CacheConfig struct {
	Enabled     bool          `env:"CACHE_ENABLED" envDefault:"true"`
	TTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	PurgeWindow time.Duration `env:"CACHE_PURGE_WINDOW" envDefault:"10m"`
}

// QuotaConfig configures companion creation limits and listing bounds.
type QuotaConfig struct {
	DefaultCompanionLimit int `env:"QUOTA_DEFAULT_COMPANION_LIMIT" envDefault:"5"`
	MaxPageSize           int `env:"MAX_PAGE_SIZE" envDefault:"100"`
}

// SecurityConfig configures request throttling.
type SecurityConfig struct {
	RateLimit      float64  `env:"RATE_LIMIT" envDefault:"5"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"10"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1"`
}

// LoggingConfig configures pkg/logger.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	File   string `env:"LOG_FILE"`
}

// VaultConfig configures secret resolution through HashiCorp Vault.
type VaultConfig struct {
	Enabled     bool          `env:"VAULT_ENABLED" envDefault:"false"`
	Address     string        `env:"VAULT_ADDR"`
	Token       string        `env:"VAULT_TOKEN"`
	Namespace   string        `env:"VAULT_NAMESPACE"`
	Mount       string        `env:"VAULT_MOUNT" envDefault:"secret"`
	SecretsPath string        `env:"VAULT_SECRETS_PATH" envDefault:"companion-app"`
	Timeout     time.Duration `env:"VAULT_TIMEOUT" envDefault:"10s"`
	CacheTTL    time.Duration `env:"VAULT_CACHE_TTL" envDefault:"5m"`
}

// TelemetryConfig configures tracing and metrics.
type TelemetryConfig struct {
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"companion-frontend"`
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

var (
	instance *Config
	loadErr  error
	once     sync.Once
)

// Load parses configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// New returns the process-wide configuration, loading it once.
func New() (*Config, error) {
	once.Do(func() {
		instance, loadErr = Load()
	})
	return instance, loadErr
}
