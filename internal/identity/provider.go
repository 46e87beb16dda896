package identity

import (
	"context"
	"fmt"
	"time"

	"companion-app/frontend/pkg/cache"
	"companion-app/frontend/pkg/logger"
	"companion-app/frontend/pkg/resilience"

	"github.com/go-resty/resty/v2"
)

// EntitlementSource returns the current entitlements of an authenticated caller.
type EntitlementSource interface {
	Entitlements(ctx context.Context, id Identity) (Entitlements, error)
}

// ClaimsSource trusts the entitlements carried in the session token.
type ClaimsSource struct{}

func (ClaimsSource) Entitlements(_ context.Context, id Identity) (Entitlements, error) {
	return id.Entitlements, nil
}

// ProviderConfig configures the entitlements API client.
type ProviderConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Provider fetches entitlements from the identity provider's API. Responses
// are cached per user and calls go through a circuit breaker.
type Provider struct {
	client  *resty.Client
	cache   *cache.Cache
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

type entitlementsResponse struct {
	Plans       []string `json:"plans"`
	Features    []string `json:"features"`
	Permissions []string `json:"permissions"`
}

// NewProvider creates an entitlements API client.
func NewProvider(cfg ProviderConfig, log *logger.Logger) *Provider {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &Provider{
		client:  client,
		cache:   cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultConfig("identity-entitlements"), log),
		log:     log,
	}
}

func (p *Provider) Entitlements(ctx context.Context, id Identity) (Entitlements, error) {
	if !id.Authenticated() {
		return Entitlements{}, nil
	}
	if cached, ok := p.cache.Get(id.UserID); ok {
		return cached.(Entitlements), nil
	}

	var body entitlementsResponse
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		resp, err := p.client.R().
			SetContext(ctx).
			SetPathParam("userID", id.UserID).
			SetResult(&body).
			Get("/users/{userID}/entitlements")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("entitlements api returned %s", resp.Status())
		}
		return nil
	})
	if err != nil {
		return Entitlements{}, fmt.Errorf("fetch entitlements: %w", err)
	}

	ent := Entitlements{Plans: body.Plans, Features: body.Features, Permissions: body.Permissions}
	p.cache.Set(id.UserID, ent)
	return ent, nil
}

// Breaker exposes the circuit breaker for health reporting.
func (p *Provider) Breaker() *resilience.CircuitBreaker {
	return p.breaker
}
