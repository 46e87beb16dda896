package secrets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"companion-app/frontend/pkg/cache"
	"companion-app/frontend/pkg/config"
	"companion-app/frontend/pkg/logger"

	vault "github.com/hashicorp/vault/api"
)

// VaultManager reads secrets from one KV v2 entry, falling back to the
// environment for keys the entry does not hold.
type VaultManager struct {
	client *vault.Client
	config config.VaultConfig
	cache  *cache.Cache
	env    EnvManager
	log    *logger.Logger
}

// NewVaultManager creates a Vault-backed manager.
func NewVaultManager(cfg config.VaultConfig, log *logger.Logger) (*VaultManager, error) {
	if cfg.Address == "" {
		return nil, ErrNoVaultAddress
	}
	if cfg.Token == "" {
		return nil, ErrNoVaultToken
	}
	if cfg.Mount == "" {
		cfg.Mount = "secret"
	}
	if log == nil {
		log = logger.Discard()
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address
	if cfg.Timeout > 0 {
		vaultConfig.Timeout = cfg.Timeout
	}
	vaultConfig.MaxRetries = 3

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	return &VaultManager{
		client: client,
		config: cfg,
		cache:  cache.New(cfg.CacheTTL, time.Minute),
		log:    log,
	}, nil
}

// GetSecret retrieves a secret from Vault, with fallback to environment variable
func (m *VaultManager) GetSecret(ctx context.Context, key string) (string, error) {
	if cached, ok := m.cache.Get(key); ok {
		return cached.(string), nil
	}

	value, err := m.getFromVault(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrSecretNotFound) {
			return "", err
		}
		m.log.Warn("Secret not found in Vault, falling back to environment", "key", key)
		if value, err = m.env.GetSecret(ctx, key); err != nil {
			return "", err
		}
	}

	m.cache.Set(key, value)
	return value, nil
}

// GetSecretWithDefault retrieves a secret with a default value if not found
func (m *VaultManager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	value, err := m.GetSecret(ctx, key)
	if err != nil {
		m.log.Warn("Failed to get secret, using default value",
			"key", key,
			"error", err.Error(),
		)
		return defaultValue
	}
	return value
}

func (m *VaultManager) getFromVault(ctx context.Context, key string) (string, error) {
	secret, err := m.client.KVv2(m.config.Mount).Get(ctx, m.config.SecretsPath)
	if err != nil {
		if errors.Is(err, vault.ErrSecretNotFound) {
			return "", ErrSecretNotFound
		}
		m.log.Error("Failed to read secret from Vault",
			"path", m.config.SecretsPath,
			"error", err.Error(),
		)
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return "", ErrSecretNotFound
	}
	value, ok := secret.Data[key].(string)
	if !ok || value == "" {
		return "", ErrSecretNotFound
	}
	return value, nil
}

// NewManager returns a Vault manager when enabled, else the environment.
func NewManager(cfg config.VaultConfig, log *logger.Logger) (Manager, error) {
	if !cfg.Enabled {
		return EnvManager{}, nil
	}
	return NewVaultManager(cfg, log)
}

// Apply overwrites the credential fields of cfg with managed secrets. Fields
// keep their environment values when a secret is absent.
func Apply(ctx context.Context, m Manager, cfg *config.Config) {
	cfg.Database.Password = m.GetSecretWithDefault(ctx, KeyDatabasePassword, cfg.Database.Password)
	cfg.Identity.JWTSecret = m.GetSecretWithDefault(ctx, KeyJWTSecret, cfg.Identity.JWTSecret)
	cfg.Identity.APIKey = m.GetSecretWithDefault(ctx, KeyIdentityAPIKey, cfg.Identity.APIKey)
	cfg.Redis.Password = m.GetSecretWithDefault(ctx, KeyRedisPassword, cfg.Redis.Password)
}
