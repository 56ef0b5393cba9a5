package pathbridge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/zero-day-ai/pathbridge/classify"
	"github.com/zero-day-ai/pathbridge/protocol"
	"github.com/zero-day-ai/pathbridge/routesink"
	"github.com/zero-day-ai/pathbridge/telemetry"
)

// RouteNotifier replays a finished plan. Moves are sent to the companion as
// route requests; every action is printed in order.
type RouteNotifier struct {
	client     *protocol.Client
	classifier classify.Classifier
	marker     string
	out        io.Writer
	sink       routesink.Sink
	session    string
	ins        *telemetry.Instruments
	logger     *slog.Logger
	seq        int
}

// NewRouteNotifier returns a RouteNotifier sending route requests through
// client.
func NewRouteNotifier(client *protocol.Client, opts ...Option) *RouteNotifier {
	return newRouteNotifier(client, "", newOptions(opts))
}

func newRouteNotifier(client *protocol.Client, session string, o *options) *RouteNotifier {
	return &RouteNotifier{
		client:     client,
		classifier: o.classifier,
		marker:     o.marker,
		out:        o.out,
		sink:       o.sink,
		session:    session,
		ins:        o.instruments,
		logger:     o.logger,
	}
}

// AnnouncePlan announces every action of plan in order and stops at the
// first failure.
func (n *RouteNotifier) AnnouncePlan(ctx context.Context, plan []Action) error {
	if len(plan) == 0 {
		return ErrEmptyPlan
	}
	for _, a := range plan {
		if err := n.Announce(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Announce announces one action. Only moves generate protocol traffic.
func (n *RouteNotifier) Announce(ctx context.Context, a Action) error {
	step := routesink.Step{
		Session: n.session,
		Action:  a.Name,
		Args:    a.Args,
	}

	switch {
	case a.IsGoal():
		step.Kind = routesink.KindGoal
		step.Action = GoalAction
		step.Args = nil
	default:
		move, err := n.classifier.IsMove(a.Name, a.Args)
		if err != nil {
			return err
		}
		if !move {
			step.Kind = routesink.KindAction
			break
		}

		from, to, err := CellArgs(a, n.marker)
		if err != nil {
			return err
		}
		ctx, rt := n.ins.StartRoundTrip(ctx, protocol.OpRoute.String(), from, to)
		err = n.client.Route(ctx, from, to)
		rt.End(ctx, 0, err)
		if err != nil {
			return err
		}
		step.Kind = routesink.KindMove
		step.From, step.To = from, to
	}

	n.seq++
	step.Seq = n.seq
	step.Time = time.Now().UTC()

	line := a.String()
	if step.Kind == routesink.KindGoal {
		line = GoalAction
	}
	if _, err := fmt.Fprintln(n.out, line); err != nil {
		n.logger.Warn("failed to print plan step", "step", step.Seq, "error", err)
	}
	n.publish(ctx, step)
	return nil
}

func (n *RouteNotifier) publish(ctx context.Context, step routesink.Step) {
	if n.sink == nil {
		return
	}
	if err := n.sink.Publish(ctx, step); err != nil {
		n.logger.Warn("failed to publish plan step",
			"step", step.Seq,
			"action", step.Action,
			"error", err)
	}
}
