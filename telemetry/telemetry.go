// Package telemetry instruments the bridge with OpenTelemetry.
//
// Each companion round-trip becomes a span carrying the opcode and the two
// cell names, and three instruments track how well the memo tables work:
//
//   - pathbridge.cache.hits: lookups answered from a memo table
//   - pathbridge.cache.misses: lookups that needed a round-trip
//   - pathbridge.roundtrip.duration: round-trip latency in milliseconds
//
// Instruments built from nil providers use the no-op implementations, so the
// bridge can always call them unconditionally.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ScopeName is the instrumentation scope of the bridge's tracer and meter.
const ScopeName = "github.com/zero-day-ai/pathbridge"

// Instruments bundles the tracer and metric instruments used by a session.
type Instruments struct {
	tracer    trace.Tracer
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	roundTrip metric.Float64Histogram
}

// New creates the bridge instruments from the given providers. A nil provider
// is replaced with its no-op counterpart.
func New(tp trace.TracerProvider, mp metric.MeterProvider) (*Instruments, error) {
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}

	meter := mp.Meter(ScopeName)
	ins := &Instruments{tracer: tp.Tracer(ScopeName)}
	var err error

	ins.hits, err = meter.Int64Counter(
		"pathbridge.cache.hits",
		metric.WithDescription("Memo table lookups answered without a round-trip"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create hit counter: %w", err)
	}

	ins.misses, err = meter.Int64Counter(
		"pathbridge.cache.misses",
		metric.WithDescription("Memo table lookups that required a round-trip"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create miss counter: %w", err)
	}

	ins.roundTrip, err = meter.Float64Histogram(
		"pathbridge.roundtrip.duration",
		metric.WithDescription("Companion round-trip duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create round-trip histogram: %w", err)
	}

	return ins, nil
}

// Noop returns instruments that record nothing.
func Noop() *Instruments {
	ins, _ := New(nil, nil)
	return ins
}

// CacheHit records a memo hit in table.
func (i *Instruments) CacheHit(ctx context.Context, table string) {
	i.hits.Add(ctx, 1, metric.WithAttributes(attribute.String("table", table)))
}

// CacheMiss records a memo miss in table.
func (i *Instruments) CacheMiss(ctx context.Context, table string) {
	i.misses.Add(ctx, 1, metric.WithAttributes(attribute.String("table", table)))
}

// RoundTrip is an in-flight companion exchange.
type RoundTrip struct {
	ins   *Instruments
	span  trace.Span
	op    string
	start time.Time
}

// StartRoundTrip opens a span for one exchange.
func (i *Instruments) StartRoundTrip(ctx context.Context, op, from, to string) (context.Context, *RoundTrip) {
	ctx, span := i.tracer.Start(ctx, "pathbridge."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("pathbridge.op", op),
			attribute.String("pathbridge.from", from),
			attribute.String("pathbridge.to", to),
		),
	)
	return ctx, &RoundTrip{ins: i, span: span, op: op, start: time.Now()}
}

// End closes the span, recording err and, on success, the returned value.
func (r *RoundTrip) End(ctx context.Context, value float64, err error) {
	elapsed := float64(time.Since(r.start).Microseconds()) / 1000.0
	r.ins.roundTrip.Record(ctx, elapsed, metric.WithAttributes(attribute.String("op", r.op)))

	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	} else {
		r.span.SetAttributes(attribute.Float64("pathbridge.value", value))
		r.span.SetStatus(codes.Ok, "")
	}
	r.span.End()
}
