package agent

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/juryline/engine/internal/ports"
)

// rateLimitedAgent paces task invocations with a token bucket so the
// engine cannot exceed the backend's request quota during bulk
// recomputations.
type rateLimitedAgent struct {
	next    CoreAgent
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware that enforces rate limiting using
// a token bucket. The limit parameter sets tasks per second, while burst
// allows temporary spikes above the sustained rate.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next CoreAgent) CoreAgent {
		return &rateLimitedAgent{
			next:    next,
			limiter: limiter,
		}
	}
}

// DoTask waits for rate limit permission before forwarding the task.
// This blocks the calling goroutine until a token is available or the
// context expires.
func (r *rateLimitedAgent) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, ports.NewAgentError(r.next.Provider(), task, fmt.Errorf("rate limit: %w", err))
	}
	return r.next.DoTask(ctx, task, payload)
}

// Provider returns the provider name from the wrapped implementation.
func (r *rateLimitedAgent) Provider() string { return r.next.Provider() }
