package router

import (
	"context"
	"slices"
	"time"

	"companion-app/frontend/internal/api"
	"companion-app/frontend/internal/identity"
	"companion-app/frontend/internal/models"
	"companion-app/frontend/internal/web"
	"companion-app/frontend/pkg/config"
	"companion-app/frontend/pkg/di"
	"companion-app/frontend/pkg/errors"
	"companion-app/frontend/pkg/logger"
	"companion-app/frontend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Track server start time for uptime calculations
var startTime = time.Now()

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates the engine with the shared middleware chain. Background work
// tied to the router stops when ctx is done.
func New(ctx context.Context, container *di.Container) *Router {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		container.Logger.Warn("Invalid trusted proxies, trusting none", "error", err.Error())
		_ = engine.SetTrustedProxies(nil)
	}

	rateLimiter := middleware.NewRateLimiter(container.Logger, middleware.RateLimiterOptions{
		Limit:          rate.Limit(cfg.Security.RateLimit),
		Burst:          cfg.Security.RateLimitBurst,
		ExpiryDuration: time.Hour,
	})
	go rateLimiter.Run(ctx, time.Minute)

	engine.Use(
		middleware.RequestID(),
		tracing(container.Telemetry.Tracer),
		middleware.TraceContext(),
		logger.Middleware(container.Logger),
		errors.ErrorHandler(),
		errors.RecoveryWithLogger(),
		corsMiddleware(cfg.Security.AllowedOrigins),
		identity.Middleware(container.Resolver),
		rateLimiter.Middleware(),
	)

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.setupHealthRoutes()

	v1 := r.Engine.Group("/api/v1")
	r.AddOpenAPIValidation(v1)
	{
		c := r.Container
		api.NewCompanionHandler(c.CompanionService).RegisterRoutes(v1)
		api.NewSessionHandler(c.SessionService).RegisterRoutes(v1)
		api.NewBookmarkHandler(c.BookmarkService).RegisterRoutes(v1)
		api.NewPermissionHandler(c.PermissionService).RegisterRoutes(v1)
	}

	pages := r.Engine.Group("/")
	if r.Container.Pages != nil {
		pages.Use(r.Container.Pages.Middleware())
	}
	web.NewHandler(r.Container.WebServices(), models.DefaultPageLimit).RegisterRoutes(pages)
}

// tracing opens a server span per request so downstream spans and the
// X-Trace-ID header share one trace.
func tracing(tracer trace.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("url.path", c.Request.URL.Path),
			),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}

// corsMiddleware echoes allowed origins; "*" allows any origin.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	anyOrigin := slices.Contains(allowed, "*")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case origin == "":
		case anyOrigin || slices.Contains(allowed, origin):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Authorization, Origin, Cache-Control, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Trace-ID, X-Cache")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
