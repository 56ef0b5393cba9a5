package pathbridge

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zero-day-ai/pathbridge/protocol"
	"github.com/zero-day-ai/pathbridge/routesink"
	"github.com/zero-day-ai/pathbridge/transport"
)

// Session is one planning run connected to a companion. It owns the pipes,
// the memo tables and the protocol client. It is not safe for concurrent use.
type Session struct {
	id         string
	transport  transport.Transport
	client     *protocol.Client
	dispatcher *Dispatcher
	notifier   *RouteNotifier
	sink       routesink.Sink
	fatal      FatalHandler
	logger     *slog.Logger
	closed     bool
}

// Open connects to the companion and returns a ready Session. Unless
// WithTransport is given, the pipes are opened in planner order, response
// pipe first, which blocks until the companion has opened its ends.
func Open(ctx context.Context, opts ...Option) (*Session, error) {
	o := newOptions(opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.format.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := o.logger.With("session_id", id)
	o.logger = logger

	t := o.transport
	if t == nil {
		logger.Info("opening pipes",
			"request", o.paths.Request,
			"response", o.paths.Response)
		d, err := transport.OpenPlanner(o.paths, transport.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		t = d
	}

	client := protocol.NewClient(t, o.format)
	s := &Session{
		id:         id,
		transport:  t,
		client:     client,
		dispatcher: newDispatcher(client, o),
		notifier:   newRouteNotifier(client, id, o),
		sink:       o.sink,
		fatal:      o.fatal,
		logger:     logger,
	}
	logger.Info("session opened")
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Dispatcher returns the session's query dispatcher.
func (s *Session) Dispatcher() *Dispatcher { return s.dispatcher }

// Notifier returns the session's route notifier.
func (s *Session) Notifier() *RouteNotifier { return s.notifier }

// Stats returns the protocol traffic so far.
func (s *Session) Stats() protocol.Stats { return s.client.Stats() }

// Dump writes both memo tables to w.
func (s *Session) Dump(w io.Writer) error { return s.dispatcher.Dump(w) }

// Heuristic returns the heuristic estimate for a. Errors go to the fatal
// handler; if it returns, Heuristic returns 0.
func (s *Session) Heuristic(ctx context.Context, a Action) float64 {
	if s.closed {
		s.fail("Session.Heuristic", ErrSessionClosed)
		return 0
	}
	v, err := s.dispatcher.QueryHeuristic(ctx, a)
	if err != nil {
		s.fail("Session.Heuristic", err)
		return 0
	}
	return v
}

// Cost returns the traversal cost of a. Errors, including a pair the
// companion cannot connect, go to the fatal handler; if it returns, Cost
// returns 0.
func (s *Session) Cost(ctx context.Context, a Action) float64 {
	if s.closed {
		s.fail("Session.Cost", ErrSessionClosed)
		return 0
	}
	v, err := s.dispatcher.QueryCost(ctx, a)
	if err != nil {
		s.fail("Session.Cost", err)
		return 0
	}
	return v
}

// AnnouncePlan replays plan to the companion and prints it. Errors go to the
// fatal handler.
func (s *Session) AnnouncePlan(ctx context.Context, plan []Action) {
	if s.closed {
		s.fail("Session.AnnouncePlan", ErrSessionClosed)
		return
	}
	if err := s.notifier.AnnouncePlan(ctx, plan); err != nil {
		s.fail("Session.AnnouncePlan", err)
	}
}

// Close sends the shutdown opcode and closes the pipes and the route sink.
// Only the first call has any effect. The shutdown frame is sent even when
// ctx is already done. A failure to send shutdown or to close the pipes goes
// to the fatal handler once everything has been released; if the handler
// returns, Close returns the error.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	stats := s.client.Stats()
	err := s.client.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		s.logger.Error("failed to send shutdown", "error", err)
	}
	if cerr := s.transport.Close(); cerr != nil {
		s.logger.Error("failed to close pipes", "error", cerr)
		if err == nil {
			err = cerr
		}
	}
	CloseWithLog(s.sink, s.logger, "route sink")

	s.logger.Info("session closed",
		"round_trips", stats.RoundTrips,
		"heuristic_cells", s.dispatcher.heuristics.Len(),
		"cost_cells", s.dispatcher.costs.Len())

	if err != nil {
		err = wrap("Session.Close", err)
		s.fatal(err)
		return err
	}
	return nil
}

func (s *Session) fail(op string, err error) {
	s.fatal(wrap(op, err))
}
