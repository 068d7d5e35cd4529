package forecast

import "fmt"

// NetworkError is a transport-level failure: connection refused, timeout or
// an unreadable answer.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("forecast service unreachable: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError is a failure reported by the forecasting service itself.
// Message is empty when the service did not say why.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("forecast service error (status %d)", e.Status)
	}
	return fmt.Sprintf("forecast service error (status %d): %s", e.Status, e.Message)
}

// UserMessage returns what the service said, verbatim.
func (e *ServiceError) UserMessage() string { return e.Message }
