package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKey is the gin context key holding the request-scoped *Logger.
const ContextKey = "logger"

// Middleware returns a Gin middleware function that logs requests.
// It must run before the identity middleware so that the caller id,
// once known, can be attached by that middleware.
func Middleware(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = c.GetString("requestID")
		}
		if requestID == "" {
			requestID = uuid.New().String()
			c.Header("X-Request-ID", requestID)
		}

		reqLogger := logger.WithRequestID(requestID)
		c.Set(ContextKey, reqLogger)
		c.Request = c.Request.WithContext(IntoContext(c.Request.Context(), reqLogger))

		start := time.Now()

		c.Next()

		// the identity middleware may have swapped in a logger carrying the user id
		if l, ok := c.Get(ContextKey); ok {
			if scoped, ok := l.(*Logger); ok {
				reqLogger = scoped
			}
		}

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		method := c.Request.Method

		reqLogger.LogRequest(method, path, status, latency)

		for _, err := range c.Errors {
			reqLogger.LogError(err.Err, "request error",
				"method", method,
				"path", path,
				"error_type", err.Type,
			)
		}
	}
}

// FromGin returns the request-scoped logger stored by Middleware, or the
// global logger.
func FromGin(c *gin.Context) *Logger {
	if l, ok := c.Get(ContextKey); ok {
		if scoped, ok := l.(*Logger); ok {
			return scoped
		}
	}
	return GetGlobal()
}
