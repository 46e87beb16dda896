package di

import (
	"context"
	"errors"
	"fmt"
	"os"

	"companion-app/frontend/internal/identity"
	"companion-app/frontend/internal/quota"
	"companion-app/frontend/internal/repository"
	"companion-app/frontend/internal/repository/memory"
	"companion-app/frontend/internal/revalidate"
	"companion-app/frontend/internal/service"
	"companion-app/frontend/internal/web"
	"companion-app/frontend/pkg/cache"
	"companion-app/frontend/pkg/config"
	"companion-app/frontend/pkg/health"
	"companion-app/frontend/pkg/jwt"
	"companion-app/frontend/pkg/logger"
	"companion-app/frontend/pkg/observability"
	"companion-app/frontend/pkg/secrets"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	Config    *config.Config
	Logger    *logger.Logger
	Telemetry *observability.Telemetry

	// DB is nil when the memory store is selected.
	DB *gorm.DB
	// Redis and Bus are nil when no Redis address is configured.
	Redis *redis.Client
	Bus   *revalidate.Redis

	Companions repository.CompanionRepository
	Sessions   repository.SessionRepository
	Bookmarks  repository.BookmarkRepository

	// Pages is nil when the page cache is disabled.
	Pages       *web.PageCache
	Revalidator revalidate.Revalidator

	Tokens   *jwt.Service
	Resolver *identity.Resolver
	// Provider is nil when entitlements come from token claims only.
	Provider *identity.Provider

	CompanionService  *service.CompanionService
	SessionService    *service.SessionService
	BookmarkService   *service.BookmarkService
	PermissionService *service.PermissionService

	Health *health.Checker
}

// New wires the application from cfg. Secrets are resolved first so the
// database and identity clients see the managed credentials.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	manager, err := secrets.NewManager(cfg.Vault, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager: %w", err)
	}
	secrets.Apply(ctx, manager, cfg)

	if cfg.Identity.JWTSecret == "" {
		return nil, errors.New("IDENTITY_JWT_SECRET is required")
	}

	tel, err := observability.Setup(observability.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.TracingEnabled,
		MetricsEnabled: cfg.Telemetry.MetricsEnabled,
		TraceOutput:    os.Stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	c := &Container{
		Config:    cfg,
		Logger:    log,
		Telemetry: tel,
		Health:    health.NewChecker(log, 0),
	}

	if err := c.initStore(log); err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}
	c.initRevalidation(log)
	c.initIdentity(log)

	in := service.NewInstrumentation(log, tel)
	c.CompanionService = service.NewCompanionService(c.Companions, c.Revalidator, cfg.Quota.MaxPageSize, in)
	c.SessionService = service.NewSessionService(c.Sessions, c.Revalidator, cfg.Quota.MaxPageSize, in)
	c.BookmarkService = service.NewBookmarkService(c.Bookmarks, c.Revalidator, in)

	var entitlements identity.EntitlementSource = identity.ClaimsSource{}
	if c.Provider != nil {
		entitlements = c.Provider
	}
	c.PermissionService = service.NewPermissionService(c.Companions, entitlements,
		quota.Policy{DefaultLimit: cfg.Quota.DefaultCompanionLimit}, in)
	c.CompanionService.WithCreationGate(c.PermissionService)

	return c, nil
}

func (c *Container) initStore(log *logger.Logger) error {
	if c.Config.Database.Driver == "memory" {
		log.Warn("Using in-memory store, data is lost on restart")
		store := memory.NewStore()
		c.Companions, c.Sessions, c.Bookmarks = store.Companions(), store.Sessions(), store.Bookmarks()
		return nil
	}

	db, err := config.NewDB(c.Config, log)
	if err != nil {
		return err
	}
	c.DB = db
	c.Companions = repository.NewGormCompanionRepository(db)
	c.Sessions = repository.NewGormSessionRepository(db)
	c.Bookmarks = repository.NewGormBookmarkRepository(db)

	c.Health.RegisterDatabaseCheck(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	return nil
}

func (c *Container) initRevalidation(log *logger.Logger) {
	var pages revalidate.Invalidator
	if c.Config.Cache.Enabled {
		c.Pages = web.NewPageCache(cache.New(c.Config.Cache.TTL, c.Config.Cache.PurgeWindow))
		pages = c.Pages
	}
	local := revalidate.NewLocal(pages, log)
	c.Revalidator = local

	if c.Config.Redis.Addr == "" {
		return
	}
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	c.Bus = revalidate.NewRedis(c.Redis, c.Config.Redis.Channel, local, log)
	c.Revalidator = c.Bus
	c.Health.RegisterRedisCheck(c.Redis)
}

func (c *Container) initIdentity(log *logger.Logger) {
	id := c.Config.Identity
	c.Tokens = jwt.NewService(id.JWTSecret, id.Issuer, 0)
	c.Resolver = identity.NewResolver(c.Tokens, id.SessionCookie)

	if id.APIURL == "" {
		return
	}
	c.Provider = identity.NewProvider(identity.ProviderConfig{
		BaseURL:  id.APIURL,
		APIKey:   id.APIKey,
		Timeout:  id.APITimeout,
		CacheTTL: id.EntitlementTTL,
	}, log)
	c.Health.RegisterBreakerCheck("identity-entitlements", c.Provider.Breaker())
}

// WebServices returns the services used by the HTML handlers.
func (c *Container) WebServices() web.Services {
	return web.Services{
		Companions:  c.CompanionService,
		Sessions:    c.SessionService,
		Bookmarks:   c.BookmarkService,
		Permissions: c.PermissionService,
	}
}

// Close releases connections and flushes telemetry.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if c.Telemetry != nil {
		errs = append(errs, c.Telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
