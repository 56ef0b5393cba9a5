// Package bridgeerr provides structured error types for the planner bridge.
//
// # Overview
//
// Every failure on the planner side of the bridge is reported as an *Error
// carrying the component and operation that failed, a standard code, and the
// underlying cause. The bridge is fail-fast: a broken pipe, an unparseable
// frame or an infeasible transition all invalidate the search in progress, so
// each code maps to a class and every class is fatal.
//
// # Error Codes
//
//   - ErrCodeTransportFailure: open/read/write/close on a pipe failed
//   - ErrCodeProtocolViolation: a frame could not be encoded or decoded
//   - ErrCodeNoSolution: the companion reported no feasible path
//   - ErrCodeOutOfRange: a cache access used an unregistered cell id
//   - ErrCodeInvalidAction: a move action did not carry two cell arguments
//   - ErrCodeInvalidConfig: configuration failed validation
//
// # Usage
//
//	err := bridgeerr.New("transport", "send", bridgeerr.ErrCodeTransportFailure,
//	    "short write on request pipe").
//	    WithCause(ioErr).
//	    WithDetails(map[string]any{"path": "/tmp/tuberia-ff-astar"})
//
//	var bErr *bridgeerr.Error
//	if errors.As(err, &bErr) && bErr.Code == bridgeerr.ErrCodeNoSolution {
//	    // infeasible transition
//	}
//
// Diagnose renders the operator-facing message registered for an error's
// code, which is what the fatal handler prints before terminating.
package bridgeerr
