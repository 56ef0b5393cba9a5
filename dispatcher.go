package pathbridge

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/zero-day-ai/pathbridge/classify"
	"github.com/zero-day-ai/pathbridge/memo"
	"github.com/zero-day-ai/pathbridge/protocol"
	"github.com/zero-day-ai/pathbridge/telemetry"
)

// NonMoveCost is the value returned for actions that are not moves.
const NonMoveCost = 1.0

// Dispatcher answers heuristic and cost queries, going to the companion only
// on a memo miss. It is not safe for concurrent use.
type Dispatcher struct {
	client     *protocol.Client
	classifier classify.Classifier
	marker     string
	heuristics *memo.Table
	costs      *memo.Table
	ins        *telemetry.Instruments
	logger     *slog.Logger
}

// NewDispatcher returns a Dispatcher issuing round-trips through client.
func NewDispatcher(client *protocol.Client, opts ...Option) *Dispatcher {
	return newDispatcher(client, newOptions(opts))
}

func newDispatcher(client *protocol.Client, o *options) *Dispatcher {
	return &Dispatcher{
		client:     client,
		classifier: o.classifier,
		marker:     o.marker,
		heuristics: memo.NewTable("heuristics"),
		costs:      memo.NewTable("costs"),
		ins:        o.instruments,
		logger:     o.logger,
	}
}

// QueryHeuristic returns the heuristic estimate for a.
func (d *Dispatcher) QueryHeuristic(ctx context.Context, a Action) (float64, error) {
	return d.query(ctx, protocol.OpHeuristic, d.heuristics, a)
}

// QueryCost returns the traversal cost of a. A pair the companion cannot
// connect is reported as a NO_SOLUTION error.
func (d *Dispatcher) QueryCost(ctx context.Context, a Action) (float64, error) {
	return d.query(ctx, protocol.OpCost, d.costs, a)
}

// Heuristics returns the heuristic memo table.
func (d *Dispatcher) Heuristics() *memo.Table { return d.heuristics }

// Costs returns the cost memo table.
func (d *Dispatcher) Costs() *memo.Table { return d.costs }

// Dump writes both memo tables to w.
func (d *Dispatcher) Dump(w io.Writer) error {
	for _, t := range []*memo.Table{d.heuristics, d.costs} {
		if _, err := fmt.Fprintf(w, "%s:", t.Name()); err != nil {
			return err
		}
		if err := t.Dump(w); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) query(ctx context.Context, op protocol.Opcode, table *memo.Table, a Action) (float64, error) {
	if a.IsGoal() {
		return 0, nil
	}

	move, err := d.classifier.IsMove(a.Name, a.Args)
	if err != nil {
		return 0, err
	}
	if !move {
		return NonMoveCost, nil
	}

	from, to, err := CellArgs(a, d.marker)
	if err != nil {
		return 0, err
	}

	ida, idb, v, ok, err := table.Lookup(from, to)
	if err != nil {
		return 0, err
	}
	if ok {
		d.ins.CacheHit(ctx, table.Name())
		return v, nil
	}
	d.ins.CacheMiss(ctx, table.Name())

	ctx, rt := d.ins.StartRoundTrip(ctx, op.String(), from, to)
	if op == protocol.OpCost {
		v, err = d.client.Cost(ctx, from, to)
	} else {
		v, err = d.client.Heuristic(ctx, from, to)
	}
	rt.End(ctx, v, err)
	if err != nil {
		return 0, err
	}

	if err := table.Store(ida, idb, v); err != nil {
		return 0, err
	}
	d.logger.Debug("memoized companion answer",
		"table", table.Name(),
		"from", from,
		"to", to,
		"value", v)
	return v, nil
}
