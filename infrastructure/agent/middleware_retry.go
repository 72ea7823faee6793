package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/juryline/engine/internal/ports"
)

// retryAgent retries failed tasks with exponential backoff. Declines and
// invalid responses are not retried; re-asking the same model rarely
// changes a refusal, and the engine's fallback is cheaper.
type retryAgent struct {
	next       CoreAgent
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// RetryMiddleware creates middleware that automatically retries failed
// tasks with exponential backoff and jitter. Only transient failures are
// retried.
func RetryMiddleware(maxRetries int, baseDelay, maxDelay time.Duration) Middleware {
	return func(next CoreAgent) CoreAgent {
		return &retryAgent{
			next:       next,
			maxRetries: maxRetries,
			baseDelay:  baseDelay,
			maxDelay:   maxDelay,
		}
	}
}

// DoTask executes the task with automatic retry logic. It backs off
// exponentially between attempts and respects circuit breaker state and
// context cancellation.
func (r *retryAgent) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		result, err := r.next.DoTask(ctx, task, payload)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if errors.Is(err, ErrCircuitOpen) || ctx.Err() != nil || !isTransient(err) {
			break
		}
		if attempt == r.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.calculateDelay(attempt)):
		}
	}

	return nil, fmt.Errorf("task failed after retries: %w", lastErr)
}

// isTransient reports whether a failure is worth retrying.
func isTransient(err error) bool {
	return errors.Is(err, ports.ErrRateLimited) ||
		errors.Is(err, ports.ErrServiceUnavailable) ||
		errors.Is(err, ports.ErrTimeout)
}

func (r *retryAgent) calculateDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30
	}
	// #nosec G115 - attempt is bounded between 0 and 30
	multiplier := 1 << uint(attempt)
	delay := time.Duration(float64(r.baseDelay) * float64(multiplier))

	// Add jitter (±25%)
	// #nosec G404 - Using weak RNG is acceptable for jitter calculation
	jitter := time.Duration(rand.Float64() * float64(delay) * 0.5)
	delay = delay + jitter - (delay / 4)

	if delay > r.maxDelay {
		delay = r.maxDelay
	}
	return delay
}

// Provider returns the provider name from the wrapped implementation.
func (r *retryAgent) Provider() string { return r.next.Provider() }
