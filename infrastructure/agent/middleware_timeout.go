package agent

import (
	"context"
	"time"
)

// timeoutAgent enforces a per-task deadline so a slow backend cannot stall
// the engine past its fallback window.
type timeoutAgent struct {
	next    CoreAgent
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that enforces per-task timeouts.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreAgent) CoreAgent {
		return &timeoutAgent{
			next:    next,
			timeout: timeout,
		}
	}
}

// DoTask executes the task with a timeout context. A task that misses the
// deadline returns a context deadline exceeded error.
func (t *timeoutAgent) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DoTask(ctx, task, payload)
}

// Provider returns the provider name from the wrapped implementation.
func (t *timeoutAgent) Provider() string { return t.next.Provider() }
