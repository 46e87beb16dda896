package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Config selects which signals are exported.
type Config struct {
	ServiceName    string
	TracingEnabled bool
	MetricsEnabled bool
	// TraceOutput receives spans when tracing is enabled (stdout exporter).
	TraceOutput io.Writer
}

// Telemetry bundles the tracer, meter and /metrics handler of the process.
type Telemetry struct {
	Tracer         trace.Tracer
	Meter          metric.Meter
	MetricsHandler http.Handler

	shutdown []func(context.Context) error
}

// Noop returns telemetry that records nothing. Used by tests.
func Noop() *Telemetry {
	return &Telemetry{
		Tracer:         tracenoop.NewTracerProvider().Tracer(""),
		Meter:          metricnoop.NewMeterProvider().Meter(""),
		MetricsHandler: http.NotFoundHandler(),
	}
}

// Setup initializes tracing with the stdout exporter and metrics with the
// Prometheus exporter on a dedicated registry.
func Setup(cfg Config) (*Telemetry, error) {
	t := Noop()

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	if cfg.TracingEnabled {
		opts := []stdouttrace.Option{}
		if cfg.TraceOutput != nil {
			opts = append(opts, stdouttrace.WithWriter(cfg.TraceOutput))
		}
		exp, err := stdouttrace.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("init stdouttrace exporter: %w", err)
		}
		provider := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
		t.Tracer = provider.Tracer(cfg.ServiceName)
		t.shutdown = append(t.shutdown, provider.Shutdown)
	}

	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		exp, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("init prometheus exporter: %w", err)
		}
		provider := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(exp),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(provider)
		t.Meter = provider.Meter(cfg.ServiceName)
		t.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		t.shutdown = append(t.shutdown, provider.Shutdown)
	}

	return t, nil
}

// Shutdown flushes and stops every provider started by Setup.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
