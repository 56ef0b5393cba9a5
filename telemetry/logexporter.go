package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter writes finished spans to a slog logger at debug level.
type LogExporter struct {
	logger *slog.Logger
}

// NewLogExporter returns an exporter logging to logger.
func NewLogExporter(logger *slog.Logger) *LogExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogExporter{logger: logger}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		attrs := []any{
			"span", s.Name(),
			"duration", s.EndTime().Sub(s.StartTime()),
			"status", s.Status().Code.String(),
		}
		for _, kv := range s.Attributes() {
			attrs = append(attrs, string(kv.Key), kv.Value.Emit())
		}
		e.logger.DebugContext(ctx, "span", attrs...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogExporter) Shutdown(context.Context) error {
	return nil
}

// LogMetricExporter writes collected metrics to a slog logger at info level,
// one record per data point.
type LogMetricExporter struct {
	logger *slog.Logger
}

// NewLogMetricExporter returns a metric exporter logging to logger.
func NewLogMetricExporter(logger *slog.Logger) *LogMetricExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMetricExporter{logger: logger}
}

// Temporality implements sdkmetric.Exporter.
func (e *LogMetricExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(k)
}

// Aggregation implements sdkmetric.Exporter.
func (e *LogMetricExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}

// Export implements sdkmetric.Exporter. Only the data types the bridge
// records are logged.
func (e *LogMetricExporter) Export(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					attrs := []any{"metric", m.Name, "value", dp.Value}
					e.logger.InfoContext(ctx, "metric", append(attrs, pointAttrs(dp.Attributes.ToSlice())...)...)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					attrs := []any{"metric", m.Name, "count", dp.Count, "sum", dp.Sum}
					e.logger.InfoContext(ctx, "metric", append(attrs, pointAttrs(dp.Attributes.ToSlice())...)...)
				}
			}
		}
	}
	return nil
}

// ForceFlush implements sdkmetric.Exporter.
func (e *LogMetricExporter) ForceFlush(context.Context) error {
	return nil
}

// Shutdown implements sdkmetric.Exporter.
func (e *LogMetricExporter) Shutdown(context.Context) error {
	return nil
}

func pointAttrs(kvs []attribute.KeyValue) []any {
	out := make([]any, 0, 2*len(kvs))
	for _, kv := range kvs {
		out = append(out, string(kv.Key), kv.Value.Emit())
	}
	return out
}
