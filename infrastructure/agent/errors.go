package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/juryline/engine/internal/ports"
)

// classifyHTTPError maps a backend HTTP status code onto the shared agent
// error taxonomy. Rate limits and server-side failures carry their
// sentinel so callers can distinguish transient declines from permanent
// ones.
func classifyHTTPError(provider, task string, statusCode int, err error) error {
	var cause error
	switch {
	case statusCode == 429:
		cause = fmt.Errorf("status %d: %w", statusCode, ports.ErrRateLimited)
	case statusCode >= 500:
		cause = fmt.Errorf("status %d: %w", statusCode, ports.ErrServiceUnavailable)
	default:
		cause = fmt.Errorf("status %d: %w", statusCode, err)
	}
	return ports.NewAgentError(provider, task, cause)
}

// classifyContextError maps context cancellation and deadline errors onto
// the shared timeout sentinel.
func classifyContextError(provider, task string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ports.NewAgentError(provider, task, fmt.Errorf("%v: %w", err, ports.ErrTimeout))
	}
	return ports.NewAgentError(provider, task, err)
}
