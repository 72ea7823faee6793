package agent

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen indicates that the circuit breaker rejected a task
// without reaching the backend.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerState represents the current state of a circuit breaker.
type CircuitBreakerState int

// Circuit breaker states.
const (
	// StateClosed allows all tasks to pass through normally.
	StateClosed CircuitBreakerState = iota

	// StateOpen rejects all tasks immediately after too many
	// consecutive failures.
	StateOpen

	// StateHalfOpen allows a probe task to test backend recovery once
	// the cooldown has elapsed.
	StateHalfOpen
)

// CircuitBreaker tracks consecutive failures and opens when they exceed
// the threshold, then tests recovery through half-open probes. A tripped
// circuit turns agent calls into immediate declines, which the engine
// absorbs with its deterministic fallbacks.
type CircuitBreaker struct {
	mu               sync.RWMutex
	state            CircuitBreakerState
	failureCount     int
	maxFailures      int
	cooldownDuration time.Duration
	lastFailure      time.Time
}

// NewCircuitBreaker creates a circuit breaker that opens after maxFailures
// consecutive errors and stays open for cooldownDuration before probing.
func NewCircuitBreaker(maxFailures int, cooldownDuration time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		maxFailures:      maxFailures,
		cooldownDuration: cooldownDuration,
	}
}

// Call executes a function through the circuit breaker. If the circuit is
// open, this returns ErrCircuitOpen immediately; otherwise it runs the
// function and updates circuit state from the result.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.lastFailure) < cb.cooldownDuration {
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		fallthrough
	case StateHalfOpen:
		err := fn()
		if err != nil {
			cb.failureCount++
			cb.lastFailure = time.Now()
			cb.state = StateOpen
			return err
		}
		cb.failureCount = 0
		cb.state = StateClosed
		return nil
	case StateClosed:
		err := fn()
		if err != nil {
			cb.failureCount++
			cb.lastFailure = time.Now()
			if cb.failureCount >= cb.maxFailures {
				cb.state = StateOpen
			}
			return err
		}
		cb.failureCount = 0
		return nil
	}
	return nil
}

// GetState returns the current circuit breaker state.
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// circuitBreakedAgent gates tasks through a shared circuit breaker.
type circuitBreakedAgent struct {
	next CoreAgent
	cb   *CircuitBreaker
}

// CircuitBreakerMiddleware creates middleware that implements the circuit
// breaker pattern. The circuit opens after maxFailures consecutive errors
// and stays open for the cooldown duration before attempting recovery.
func CircuitBreakerMiddleware(maxFailures int, cooldown time.Duration) Middleware {
	cb := NewCircuitBreaker(maxFailures, cooldown)

	return func(next CoreAgent) CoreAgent {
		return &circuitBreakedAgent{
			next: next,
			cb:   cb,
		}
	}
}

// DoTask executes the task through the circuit breaker. An open circuit
// fails immediately without reaching the backend.
func (c *circuitBreakedAgent) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	var result []byte

	err := c.cb.Call(func() error {
		var err error
		result, err = c.next.DoTask(ctx, task, payload)
		return err
	})

	return result, err
}

// Provider returns the provider name from the wrapped implementation.
func (c *circuitBreakedAgent) Provider() string { return c.next.Provider() }
