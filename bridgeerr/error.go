package bridgeerr

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error codes used across the bridge.
const (
	// ErrCodeTransportFailure indicates a pipe could not be opened, read,
	// written or closed.
	ErrCodeTransportFailure = "TRANSPORT_FAILURE"

	// ErrCodeProtocolViolation indicates a frame that breaks the wire format,
	// e.g. an over-long cell name or an unparseable result.
	ErrCodeProtocolViolation = "PROTOCOL_VIOLATION"

	// ErrCodeNoSolution indicates the companion answered with the no-solution
	// sentinel for a cost or route request.
	ErrCodeNoSolution = "NO_SOLUTION"

	// ErrCodeOutOfRange indicates a cache access with an unregistered cell id.
	ErrCodeOutOfRange = "OUT_OF_RANGE"

	// ErrCodeInvalidAction indicates a move action whose arguments do not
	// name two cells.
	ErrCodeInvalidAction = "INVALID_ACTION"

	// ErrCodeInvalidConfig indicates a configuration that failed validation.
	ErrCodeInvalidConfig = "INVALID_CONFIG"
)

// Error is a structured error type for bridge operations.
type Error struct {
	// Component is the part of the bridge that generated the error
	// (e.g. "transport", "protocol", "memo", "dispatcher").
	Component string

	// Operation is the specific operation that failed.
	Operation string

	// Code is a standard error code constant.
	Code string

	// Message is a human-readable error message.
	Message string

	// Details contains additional context as key-value pairs.
	Details map[string]any

	// Cause is the underlying error.
	Cause error

	// Class categorizes the error by its nature.
	Class ErrorClass `json:"class,omitempty"`
}

// New creates a new structured bridge error. The class defaults to the one
// associated with code.
//
// Example:
//
//	err := bridgeerr.New("memo", "get", bridgeerr.ErrCodeOutOfRange, "cell id 7 not registered")
func New(component, operation, code, message string) *Error {
	return &Error{
		Component: component,
		Operation: operation,
		Code:      code,
		Message:   message,
		Class:     DefaultClassForCode(code),
	}
}

// Newf is New with a formatted message.
func Newf(component, operation, code, format string, args ...any) *Error {
	return New(component, operation, code, fmt.Sprintf(format, args...))
}

// WithCause adds an underlying error to this error and returns it for chaining.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails adds additional context to this error and returns it for chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithClass overrides the error classification.
func (e *Error) WithClass(class ErrorClass) *Error {
	e.Class = class
	return e
}

// Error formats the error as "component [operation/code]: message: cause".
//
// Examples:
//   - "transport [send/TRANSPORT_FAILURE]: short write: broken pipe"
//   - "dispatcher [cost/NO_SOLUTION]: no path between C1_1 and C9_9"
func (e *Error) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%s [%s/%s]", e.Component, e.Operation, e.Code))

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code. An empty
// Component or Operation in target matches any value, so callers can test for
// a code alone:
//
//	errors.Is(err, &bridgeerr.Error{Code: bridgeerr.ErrCodeNoSolution})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	if t.Component != "" && t.Component != e.Component {
		return false
	}
	return t.Operation == "" || t.Operation == e.Operation
}

// HasCode reports whether err wraps an *Error with the given code.
func HasCode(err error, code string) bool {
	var bErr *Error
	if !errors.As(err, &bErr) {
		return false
	}
	return bErr.Code == code
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there
// is none.
func CodeOf(err error) string {
	var bErr *Error
	if !errors.As(err, &bErr) {
		return ""
	}
	return bErr.Code
}

// Sentinel causes shared by several components.
var (
	// ErrNoSolution is wrapped by every NO_SOLUTION error.
	ErrNoSolution = errors.New("companion reported no solution")

	// ErrShortTransfer is the cause when a pipe moved fewer bytes than asked.
	ErrShortTransfer = errors.New("short transfer")
)
