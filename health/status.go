package health

// Status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Status is the outcome of one check.
type Status struct {
	// Name identifies the check, e.g. "request pipe".
	Name string `json:"name,omitempty"`

	// Status is one of StatusHealthy, StatusDegraded or StatusUnhealthy.
	Status string `json:"status"`

	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy reports whether s is healthy.
func (s Status) IsHealthy() bool { return s.Status == StatusHealthy }

// IsDegraded reports whether s is degraded.
func (s Status) IsDegraded() bool { return s.Status == StatusDegraded }

// IsUnhealthy reports whether s is unhealthy.
func (s Status) IsUnhealthy() bool { return s.Status == StatusUnhealthy }

// Named returns a copy of s labelled name.
func (s Status) Named(name string) Status {
	s.Name = name
	return s
}

func healthy(message string) Status {
	return Status{Status: StatusHealthy, Message: message}
}

func degraded(message string, details map[string]any) Status {
	return Status{Status: StatusDegraded, Message: message, Details: details}
}

func unhealthy(message string, details map[string]any) Status {
	return Status{Status: StatusUnhealthy, Message: message, Details: details}
}
