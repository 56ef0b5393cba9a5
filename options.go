package pathbridge

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
	"github.com/zero-day-ai/pathbridge/classify"
	"github.com/zero-day-ai/pathbridge/protocol"
	"github.com/zero-day-ai/pathbridge/routesink"
	"github.com/zero-day-ai/pathbridge/telemetry"
	"github.com/zero-day-ai/pathbridge/transport"
)

// FatalHandler receives an error the planner cannot continue after. The
// default handler exits the process; a handler that returns lets the calling
// Session method return a zero value.
type FatalHandler func(err error)

// Option configures a Session, Dispatcher or RouteNotifier.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	tracer      trace.TracerProvider
	meter       metric.MeterProvider
	fatal       FatalHandler
	exit        func(int)
	classifier  classify.Classifier
	format      protocol.Format
	marker      string
	sink        routesink.Sink
	out         io.Writer
	paths       transport.Paths
	transport   transport.Transport
	instruments *telemetry.Instruments
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:     slog.Default(),
		classifier: classify.Name(classify.DefaultMoveAction),
		format:     protocol.DefaultFormat(),
		marker:     DefaultCellMarker,
		out:        os.Stdout,
		paths:      transport.DefaultPaths(),
		exit:       os.Exit,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.fatal == nil {
		o.fatal = exitOnFatal(o.logger, os.Stderr, o.exit)
	}
	if o.instruments == nil {
		ins, err := telemetry.New(o.tracer, o.meter)
		if err != nil {
			o.logger.Warn("telemetry disabled", "error", err)
			ins = telemetry.Noop()
		}
		o.instruments = ins
	}
	return o
}

// exitOnFatal logs err, prints its operator diagnostic to w and exits with
// status 1.
func exitOnFatal(logger *slog.Logger, w io.Writer, exit func(int)) FatalHandler {
	return func(err error) {
		logger.Error("fatal bridge error",
			"code", bridgeerr.CodeOf(err),
			"class", bridgeerr.ClassOf(err),
			"error", err)
		fmt.Fprintln(w, bridgeerr.Diagnose(err))
		exit(1)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracerProvider enables a span per companion round-trip.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracer = tp
	}
}

// WithMeterProvider enables the cache and round-trip metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meter = mp
	}
}

// WithFatalHandler replaces the handler that receives unrecoverable errors.
func WithFatalHandler(h FatalHandler) Option {
	return func(o *options) {
		o.fatal = h
	}
}

// WithExit replaces os.Exit in the default fatal handler.
func WithExit(exit func(int)) Option {
	return func(o *options) {
		o.exit = exit
	}
}

// WithClassifier sets how move actions are recognized. Defaults to an exact
// match on MOVE_TO.
func WithClassifier(c classify.Classifier) Option {
	return func(o *options) {
		o.classifier = c
	}
}

// WithFormat sets the wire bounds. Defaults to protocol.DefaultFormat().
func WithFormat(f protocol.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithCellMarker sets the prefix that identifies cell arguments.
func WithCellMarker(marker string) Option {
	return func(o *options) {
		o.marker = marker
	}
}

// WithRouteSink mirrors announced plan steps to sink.
func WithRouteSink(sink routesink.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithOutput sets where the announced plan is printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithPaths sets the pipe paths used by Open.
func WithPaths(paths transport.Paths) Option {
	return func(o *options) {
		o.paths = paths
	}
}

// WithTransport makes Open use t instead of opening the pipes.
func WithTransport(t transport.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}
