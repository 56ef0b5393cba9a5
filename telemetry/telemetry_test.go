package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNoop(t *testing.T) {
	ins := Noop()
	require.NotNil(t, ins)

	ctx := context.Background()
	ins.CacheHit(ctx, "costs")
	ins.CacheMiss(ctx, "costs")
	ctx, rt := ins.StartRoundTrip(ctx, "cost", "C1", "C2")
	rt.End(ctx, 1, nil)
}

func TestRoundTripSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	ins, err := New(tp, metricnoop.NewMeterProvider())
	require.NoError(t, err)

	ctx, rt := ins.StartRoundTrip(context.Background(), "heuristic", "C1", "C2")
	rt.End(ctx, 3.5, nil)

	ctx, rt = ins.StartRoundTrip(context.Background(), "cost", "C1", "C9")
	rt.End(ctx, 0, errors.New("no solution"))

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "pathbridge.heuristic", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("pathbridge.from", "C1"))
	assert.Contains(t, spans[0].Attributes(), attribute.Float64("pathbridge.value", 3.5))

	assert.Equal(t, "pathbridge.cost", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "no solution", spans[1].Status().Description)
}

func TestNewTracerProviderWithLogExporter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tp := NewTracerProvider("pathbridge-test", logger, NewLogExporter(logger))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ins, err := New(tp, nil)
	require.NoError(t, err)

	ctx, rt := ins.StartRoundTrip(context.Background(), "route", "C0_0", "C0_1")
	rt.End(ctx, 0, nil)

	assert.Contains(t, buf.String(), "span=pathbridge.route")
	assert.Contains(t, buf.String(), "pathbridge.to=C0_1")
}

func TestMeterProviderRecordsCacheAndRoundTrips(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProvider("pathbridge-test", nil, reader)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	ins, err := New(nil, mp)
	require.NoError(t, err)

	ctx := context.Background()
	ins.CacheHit(ctx, "costs")
	ins.CacheHit(ctx, "costs")
	ins.CacheMiss(ctx, "heuristics")
	_, rt := ins.StartRoundTrip(ctx, "cost", "C1", "C2")
	rt.End(ctx, 2, nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	got := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			got[m.Name] = m.Data
		}
	}

	hits, ok := got["pathbridge.cache.hits"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, hits.DataPoints, 1)
	assert.Equal(t, int64(2), hits.DataPoints[0].Value)

	rtt, ok := got["pathbridge.roundtrip.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, rtt.DataPoints, 1)
	assert.Equal(t, uint64(1), rtt.DataPoints[0].Count)

	var buf bytes.Buffer
	exp := NewLogMetricExporter(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, exp.Export(ctx, &rm))
	assert.Contains(t, buf.String(), "metric=pathbridge.cache.hits value=2 table=costs")
	assert.Contains(t, buf.String(), "metric=pathbridge.cache.misses value=1 table=heuristics")
	assert.Contains(t, buf.String(), "metric=pathbridge.roundtrip.duration count=1")
}
