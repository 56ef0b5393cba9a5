package telemetry

import (
	"context"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// NewTracerProvider builds an SDK tracer provider exporting synchronously to
// each exporter. Round-trips are few and slow compared to span export, so no
// batching is used.
func NewTracerProvider(serviceName string, logger *slog.Logger, exporters ...sdktrace.SpanExporter) *sdktrace.TracerProvider {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(newResource(serviceName, logger))}
	for _, exp := range exporters {
		opts = append(opts, sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exp)))
	}
	return sdktrace.NewTracerProvider(opts...)
}

// NewMeterProvider builds an SDK meter provider collecting through each
// reader. Readers that export periodically also export once more on Shutdown.
func NewMeterProvider(serviceName string, logger *slog.Logger, readers ...sdkmetric.Reader) *sdkmetric.MeterProvider {
	opts := []sdkmetric.Option{sdkmetric.WithResource(newResource(serviceName, logger))}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	return sdkmetric.NewMeterProvider(opts...)
}

func newResource(serviceName string, logger *slog.Logger) *resource.Resource {
	if logger == nil {
		logger = slog.Default()
	}
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		return resource.Default()
	}
	return res
}
