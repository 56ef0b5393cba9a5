package pathbridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

// Sentinel errors for session state.
var (
	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrEmptyPlan is returned when a plan to announce has no actions.
	ErrEmptyPlan = errors.New("empty plan")
)

// Error kinds, one per bridge error class plus session state and
// cancellation before a request reached the wire.
const (
	KindTransport     = string(bridgeerr.ErrorClassInfrastructure)
	KindProtocol      = string(bridgeerr.ErrorClassProtocol)
	KindInfeasible    = string(bridgeerr.ErrorClassInfeasible)
	KindInvariant     = string(bridgeerr.ErrorClassInvariant)
	KindConfiguration = string(bridgeerr.ErrorClassConfiguration)
	KindState         = "state"
	KindCanceled      = "canceled"
)

// Error records the session operation that failed and the kind of failure.
// It supports errors.Is and errors.As through Unwrap.
type Error struct {
	// Op is the session operation, e.g. "Session.Cost".
	Op string

	// Kind categorizes the failure.
	Kind string

	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("pathbridge: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("pathbridge: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind, and by Op when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == "" || e.Kind != t.Kind {
		return false
	}
	return t.Op == "" || e.Op == t.Op
}

// wrap attaches op to err, deriving the kind from the error's class.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pErr *Error
	if errors.As(err, &pErr) {
		return err
	}
	kind := string(bridgeerr.ClassOf(err))
	switch {
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrEmptyPlan):
		kind = KindState
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindCanceled
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// CloseWithLog closes closer and logs a failure at warning level. A nil
// closer is ignored; a nil logger means slog.Default().
//
//	defer pathbridge.CloseWithLog(sink, logger, "route sink")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
