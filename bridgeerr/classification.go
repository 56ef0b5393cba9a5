package bridgeerr

import "errors"

// ErrorClass categorizes errors by their nature.
type ErrorClass string

const (
	// ErrorClassInfrastructure indicates the pipes or the companion process
	// are unusable.
	ErrorClassInfrastructure ErrorClass = "infrastructure"

	// ErrorClassProtocol indicates the two ends disagree about the wire format.
	ErrorClassProtocol ErrorClass = "protocol"

	// ErrorClassInfeasible indicates the companion could not connect two cells.
	ErrorClassInfeasible ErrorClass = "infeasible"

	// ErrorClassInvariant indicates a programming invariant was broken.
	ErrorClassInvariant ErrorClass = "invariant"

	// ErrorClassConfiguration indicates invalid settings.
	ErrorClassConfiguration ErrorClass = "configuration"
)

// DefaultClassForCode returns the class associated with an error code.
func DefaultClassForCode(code string) ErrorClass {
	switch code {
	case ErrCodeTransportFailure:
		return ErrorClassInfrastructure
	case ErrCodeProtocolViolation:
		return ErrorClassProtocol
	case ErrCodeNoSolution:
		return ErrorClassInfeasible
	case ErrCodeOutOfRange, ErrCodeInvalidAction:
		return ErrorClassInvariant
	case ErrCodeInvalidConfig:
		return ErrorClassConfiguration
	default:
		return ErrorClassInvariant
	}
}

// IsFatal reports whether err must terminate the planning run. Nothing the
// bridge reports is retried, so any non-nil error is fatal; the function
// exists so call sites read as a classification rather than a nil check.
func IsFatal(err error) bool {
	return err != nil
}

// ClassOf returns the class of the first *Error in err's chain. Errors that
// did not originate in the bridge are treated as infrastructure failures.
func ClassOf(err error) ErrorClass {
	if err == nil {
		return ""
	}
	var bErr *Error
	if errors.As(err, &bErr) {
		if bErr.Class != "" {
			return bErr.Class
		}
		return DefaultClassForCode(bErr.Code)
	}
	return ErrorClassInfrastructure
}
