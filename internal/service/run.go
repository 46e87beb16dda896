package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"companion-app/frontend/internal/result"
	apperrors "companion-app/frontend/pkg/errors"
	"companion-app/frontend/pkg/logger"
	"companion-app/frontend/pkg/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Messages shared by several operations.
const (
	msgAuthRequired = "Authentication required."
	msgUnexpected   = "An unexpected error occurred."
)

// Instrumentation carries the logger, tracer and meters every operation
// reports to.
type Instrumentation struct {
	log     *logger.Logger
	tracer  trace.Tracer
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

// NewInstrumentation builds operation instruments from tel. A nil tel
// records nothing.
func NewInstrumentation(log *logger.Logger, tel *observability.Telemetry) *Instrumentation {
	if log == nil {
		log = logger.GetGlobal()
	}
	if tel == nil {
		tel = observability.Noop()
	}
	in := &Instrumentation{log: log, tracer: tel.Tracer}

	var err error
	in.calls, err = tel.Meter.Int64Counter("companion_operations",
		metric.WithDescription("Data-access operations by outcome"))
	if err != nil {
		log.LogError(err, "Failed to create operation counter")
	}
	in.latency, err = tel.Meter.Float64Histogram("companion_operation_duration_seconds",
		metric.WithDescription("Data-access operation latency"),
		metric.WithUnit("s"))
	if err != nil {
		log.LogError(err, "Failed to create operation histogram")
	}
	return in
}

// run executes one operation: it opens a span, recovers panics into the
// unexpected-failure envelope and records the outcome.
func run[T any](ctx context.Context, in *Instrumentation, op, unexpected string, fn func(ctx context.Context, log *logger.Logger) result.Result[T]) (res result.Result[T]) {
	ctx, span := in.tracer.Start(ctx, "service."+op)
	log := logger.FromContext(ctx, in.log)
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Recovered from panic",
				"op", op,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			res = result.Fail[T](apperrors.KindUnexpected, unexpected)
		}

		outcome := "success"
		if !res.Success {
			outcome = string(res.Kind)
			span.SetStatus(codes.Error, res.Message)
		}
		attrs := metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("outcome", outcome),
		)
		if in.calls != nil {
			in.calls.Add(ctx, 1, attrs)
		}
		if in.latency != nil {
			in.latency.Record(ctx, time.Since(start).Seconds(), attrs)
		}
		span.End()
	}()

	return fn(ctx, log)
}

// storeFailure logs the raw cause and returns the generic store failure.
func storeFailure[T any](log *logger.Logger, op string, err error, message string) result.Result[T] {
	log.LogError(err, "Store operation failed", "op", op, "kind", string(apperrors.KindStore))
	return result.Fail[T](apperrors.KindStore, message)
}

func authRequired[T any](message string) result.Result[T] {
	return result.Fail[T](apperrors.KindAuthRequired, message)
}
