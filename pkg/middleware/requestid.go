package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	// RequestIDKey is the key for request ID values in contexts
	RequestIDKey contextKey = "requestID"
	// TraceIDKey is the key for trace ID values in contexts
	TraceIDKey contextKey = "traceID"

	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"
	// TraceIDHeader echoes the trace id of the request span.
	TraceIDHeader = "X-Trace-ID"
)

// RequestID reuses an upstream X-Request-ID or mints one, and exposes it on
// the gin context, the request context and the response. It must run before
// the logger middleware, which picks the id up from "requestID".
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), RequestIDKey, requestID))
		c.Header(RequestIDHeader, requestID)
		c.Set("requestID", requestID)

		c.Next()
	}
}

// TraceContext copies the trace id of the active span, if any, onto the
// response and the request context.
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := trace.SpanContextFromContext(c.Request.Context())
		if sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), TraceIDKey, traceID))
			c.Set("traceID", traceID)
			c.Header(TraceIDHeader, traceID)
		}
		c.Next()
	}
}

// GetRequestID extracts the request ID from a context
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}

// GetTraceID extracts the trace ID from a context
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}
