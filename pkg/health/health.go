package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"companion-app/frontend/pkg/logger"
	"companion-app/frontend/pkg/resilience"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a component
type Status string

const (
	// StatusUp indicates a component is working correctly
	StatusUp Status = "up"
	// StatusDown indicates a component is not working
	StatusDown Status = "down"
	// StatusDegraded indicates a component is working but with reduced functionality
	StatusDegraded Status = "degraded"
)

// Component represents a system component that can be health-checked
type Component struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Description string         `json:"description,omitempty"`
	Error       string         `json:"error,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
}

// Check tests one component. details may be nil.
type Check func(ctx context.Context) (status Status, description string, details map[string]any, err error)

// Checker manages health checks for the system
type Checker struct {
	mutex      sync.RWMutex
	checks     map[string]Check
	critical   map[string]bool
	components map[string]*Component
	timeout    time.Duration
	log        *logger.Logger
}

// NewChecker creates a health checker whose checks each get timeout.
func NewChecker(log *logger.Logger, timeout time.Duration) *Checker {
	if log == nil {
		log = logger.Discard()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{
		checks:     make(map[string]Check),
		critical:   make(map[string]bool),
		components: make(map[string]*Component),
		timeout:    timeout,
		log:        log,
	}
}

// RegisterCheck registers a new health check. A critical component that is
// down makes the whole system unhealthy.
func (c *Checker) RegisterCheck(name string, critical bool, check Check) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.checks[name] = check
	c.critical[name] = critical
	c.components[name] = &Component{
		Name:        name,
		Status:      StatusDown,
		Description: "Not checked yet",
	}
}

// RunChecks executes all registered health checks
func (c *Checker) RunChecks(ctx context.Context) {
	c.mutex.RLock()
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mutex.RUnlock()

	for name, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		status, description, details, err := check(checkCtx)
		cancel()

		component := &Component{
			Name:        name,
			Status:      status,
			Description: description,
			Details:     details,
			LastChecked: time.Now(),
		}
		if err != nil {
			component.Error = err.Error()
			c.log.Error("Health check failed",
				"component", name,
				"status", string(status),
				"error", err.Error(),
			)
		} else {
			c.log.Debug("Health check completed",
				"component", name,
				"status", string(status),
			)
		}

		c.mutex.Lock()
		c.components[name] = component
		c.mutex.Unlock()
	}
}

// Start runs the checks now and then every period until ctx is done.
func (c *Checker) Start(ctx context.Context, period time.Duration) {
	go func() {
		c.RunChecks(ctx)

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.RunChecks(ctx)
			}
		}
	}()
}

// GetStatus returns a copy of the last results.
func (c *Checker) GetStatus() map[string]*Component {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make(map[string]*Component, len(c.components))
	for k, v := range c.components {
		componentCopy := *v
		result[k] = &componentCopy
	}
	return result
}

// IsSystemHealthy returns true if all critical components are up
func (c *Checker) IsSystemHealthy() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for name, component := range c.components {
		if component.Status == StatusDown && c.critical[name] {
			return false
		}
	}
	return true
}

// Handler reports the last results; 503 when a critical component is down.
func (c *Checker) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status, code := "ok", http.StatusOK
		if !c.IsSystemHealthy() {
			status, code = "unavailable", http.StatusServiceUnavailable
		}

		ctx.JSON(code, gin.H{
			"status":     status,
			"timestamp":  time.Now().Format(time.RFC3339),
			"components": c.GetStatus(),
		})
	}
}

// RegisterDatabaseCheck registers a critical database ping.
func (c *Checker) RegisterDatabaseCheck(ping func(ctx context.Context) error) {
	c.RegisterCheck("database", true, func(ctx context.Context) (Status, string, map[string]any, error) {
		if err := ping(ctx); err != nil {
			return StatusDown, "Database connection failed", nil, err
		}
		return StatusUp, "Database connection is established", nil, nil
	})
}

// RegisterRedisCheck registers a non-critical ping of the revalidation bus.
func (c *Checker) RegisterRedisCheck(client *redis.Client) {
	c.RegisterCheck("redis", false, func(ctx context.Context) (Status, string, map[string]any, error) {
		start := time.Now()
		if err := client.Ping(ctx).Err(); err != nil {
			return StatusDegraded, "Redis unreachable, revalidation stays local", nil, err
		}
		return StatusUp, fmt.Sprintf("Redis is responding (latency: %s)", time.Since(start)), nil, nil
	})
}

// RegisterBreakerCheck reports a circuit breaker; open means degraded.
func (c *Checker) RegisterBreakerCheck(name string, cb *resilience.CircuitBreaker) {
	c.RegisterCheck(name, false, func(context.Context) (Status, string, map[string]any, error) {
		details := cb.Metrics()
		switch cb.State() {
		case resilience.StateOpen:
			return StatusDegraded, "Circuit open", details, nil
		case resilience.StateHalfOpen:
			return StatusDegraded, "Circuit probing", details, nil
		default:
			return StatusUp, "Circuit closed", details, nil
		}
	})
}
