// Package tracing configures OpenTelemetry for the API server.
package tracing

import (
	"context"
	"fmt"

	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Tracer returns the tracer used for calculator spans.
func Tracer() trace.Tracer {
	return otel.Tracer(constants.DefaultServiceName)
}

// Setup installs a global tracer provider. With tracing disabled the global
// no-op provider stays in place. Without an endpoint spans are recorded but
// dropped.
func Setup(ctx context.Context, conf config.TracingConfig, version string) (ShutdownFunc, error) {
	if !conf.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	serviceName := conf.ServiceName
	if serviceName == "" {
		serviceName = constants.DefaultServiceName
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdktrace.SpanExporter = discardExporter{}
	if conf.Endpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(conf.Endpoint)}
		if conf.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

type discardExporter struct{}

func (discardExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (discardExporter) Shutdown(context.Context) error { return nil }
