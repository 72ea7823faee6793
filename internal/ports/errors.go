package ports

import (
	"errors"
	"fmt"
	"time"
)

// Common infrastructure errors that can occur during external service
// interactions.
var (
	// ErrRateLimited indicates that the service has rate limited the
	// request.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates that the external service is
	// unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidResponse indicates that the service returned an invalid
	// response.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrConflict indicates that a store mutation lost a serialization
	// race, such as two concurrent assignment replacements for the same
	// event.
	ErrConflict = errors.New("store conflict")

	// ErrNotFound indicates that a referenced record does not exist in
	// the store.
	ErrNotFound = errors.New("record not found")
)

// AgentError represents an error from the external agent service. It
// includes details about the provider, the proposal operation, and any
// rate limit information.
type AgentError struct {
	// Provider identifies the agent backend that generated the error.
	Provider string

	// Operation is the name of the proposal that failed.
	Operation string

	// Err is the underlying error that occurred.
	Err error

	// RetryAfter indicates how long to wait before retrying, if
	// applicable.
	RetryAfter *time.Duration
}

// Error implements the error interface for AgentError.
func (e *AgentError) Error() string {
	msg := fmt.Sprintf("agent error: provider=%s, operation=%s, err=%v", e.Provider, e.Operation, e.Err)
	if e.RetryAfter != nil {
		msg += fmt.Sprintf(", retry_after=%v", *e.RetryAfter)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *AgentError) Unwrap() error { return e.Err }

// NewAgentError creates a new AgentError with the given details.
func NewAgentError(provider, operation string, err error) *AgentError {
	return &AgentError{
		Provider:  provider,
		Operation: operation,
		Err:       err,
	}
}

// StoreError represents an error from the entity store. It records the
// failed operation and whether the caller may retry it.
type StoreError struct {
	// Operation is the store method that failed.
	Operation string

	// EventID scopes the failure to an event when known.
	EventID string

	// Err is the underlying error that occurred.
	Err error

	// Retryable indicates whether the operation can be safely retried.
	// Serialization conflicts during assignment replacement are
	// retryable; missing records are not.
	Retryable bool
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	msg := fmt.Sprintf("store error: operation=%s, err=%v", e.Operation, e.Err)
	if e.EventID != "" {
		msg = fmt.Sprintf("store error: operation=%s, event=%s, err=%v", e.Operation, e.EventID, e.Err)
	}
	if e.Retryable {
		msg += " (retryable)"
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError creates a new StoreError with the given details.
// Conflicts are classified as retryable automatically.
func NewStoreError(operation, eventID string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		EventID:   eventID,
		Err:       err,
		Retryable: errors.Is(err, ErrConflict),
	}
}

// IsRetryable reports whether err is a retryable store failure.
func IsRetryable(err error) bool {
	var serr *StoreError
	if errors.As(err, &serr) {
		return serr.Retryable
	}
	return false
}
