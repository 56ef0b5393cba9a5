package bridgeerr

import (
	"fmt"
	"sync"
)

// DiagnosticRegistry maps error codes to the message shown to the operator
// when the error terminates the run.
type DiagnosticRegistry struct {
	mu          sync.RWMutex
	diagnostics map[string]string
}

var globalRegistry = &DiagnosticRegistry{
	diagnostics: map[string]string{
		ErrCodeTransportFailure:  "communication with the path planner failed",
		ErrCodeProtocolViolation: "path planner and task planner disagree on the wire format",
		ErrCodeNoSolution:        "the path planner found no solution for one of the transitions between tasks",
		ErrCodeOutOfRange:        "cache accessed outside its dimensions",
		ErrCodeInvalidAction:     "move action does not name two cells",
		ErrCodeInvalidConfig:     "invalid configuration",
	},
}

// RegisterDiagnostic sets the operator message for code, replacing any
// previous one. Safe for concurrent use.
func RegisterDiagnostic(code, message string) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.diagnostics[code] = message
}

// DiagnosticFor returns the operator message registered for code, or "" if
// none is.
func DiagnosticFor(code string) string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return globalRegistry.diagnostics[code]
}

// Diagnose renders the operator-facing line for err: the registered
// diagnostic for its code followed by the full error text.
//
// Example:
//
//	the path planner found no solution for one of the transitions between tasks (dispatcher [cost/NO_SOLUTION]: C1_1 -> C4_2: companion reported no solution)
func Diagnose(err error) string {
	if err == nil {
		return ""
	}
	code := CodeOf(err)
	if code == "" {
		return err.Error()
	}
	diag := DiagnosticFor(code)
	if diag == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s (%v)", diag, err)
}
