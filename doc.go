// Package pathbridge connects a symbolic task planner to a companion path
// planner running as a separate process.
//
// The planner asks two questions about move actions, how far apart two cells
// are (a heuristic estimate) and what it really costs to travel between them,
// and once a plan is found it replays the moves so the companion can print
// the concrete paths. Answers are memoized per pair of cells, so each pair
// crosses the pipes at most once per table.
//
// # Session
//
// A Session owns the pipes, the two memo tables and the protocol client:
//
//	s, err := pathbridge.Open(ctx, pathbridge.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer s.Close(ctx)
//
//	h := s.Heuristic(ctx, pathbridge.NewAction("MOVE_TO", "ROBOT", "C1_1", "C4_2"))
//	c := s.Cost(ctx, pathbridge.NewAction("MOVE_TO", "ROBOT", "C1_1", "C4_2"))
//	s.AnnouncePlan(ctx, plan)
//
// Heuristic, Cost and AnnouncePlan never return errors. Every failure the
// bridge can detect leaves the two processes unable to continue, so these
// methods hand the error to the session's FatalHandler, which by default logs
// a diagnostic and exits with status 1. Library callers that want errors
// instead use Session.Dispatcher and Session.Notifier directly.
//
// # Actions
//
// The bridge only looks at an action's name and arguments. Actions that are
// not moves cost 1.0. The synthetic goal-closing action, which has neither a
// concrete nor a generalized operator, costs 0. A move action names its two
// cells as the first argument starting with the cell marker and the argument
// right after it.
//
// A Session is not safe for concurrent use.
package pathbridge
