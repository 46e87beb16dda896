package router

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// setupHealthRoutes registers health, info and metrics endpoints
func (r *Router) setupHealthRoutes() {
	checker := r.Container.Health

	r.Engine.GET("/health", checker.Handler())
	r.Engine.GET("/api/health", checker.Handler())

	r.Engine.GET("/api/info", func(c *gin.Context) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		c.JSON(200, gin.H{
			"service":   r.Config.Telemetry.ServiceName,
			"env":       r.Config.Server.Env,
			"uptime":    time.Since(startTime).Round(time.Second).String(),
			"timestamp": time.Now().Format(time.RFC3339),
			"memory": gin.H{
				"alloc_mb":  memStats.Alloc / 1024 / 1024,
				"sys_mb":    memStats.Sys / 1024 / 1024,
				"gc_cycles": memStats.NumGC,
			},
		})
	})

	if r.Config.Telemetry.MetricsEnabled {
		r.Engine.GET("/metrics", gin.WrapH(r.Container.Telemetry.MetricsHandler))
	}
}
