package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimitMiddleware_AllowsWithinBurst(t *testing.T) {
	core := &MockCoreAgent{Result: []byte(`{}`)}
	wrapped := RateLimitMiddleware(rate.Limit(1), 3)(core)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := wrapped.DoTask(ctx, TaskAssign, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, core.CallCount())
}

func TestRateLimitMiddleware_BlocksUntilTokenAvailable(t *testing.T) {
	core := &MockCoreAgent{Result: []byte(`{}`)}
	wrapped := RateLimitMiddleware(rate.Limit(50), 1)(core)

	ctx := context.Background()
	_, err := wrapped.DoTask(ctx, TaskAssign, nil)
	require.NoError(t, err)

	// The second call waits roughly one token interval (20ms at 50/s).
	start := time.Now()
	_, err = wrapped.DoTask(ctx, TaskAssign, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestRateLimitMiddleware_ContextCancellation(t *testing.T) {
	core := &MockCoreAgent{Result: []byte(`{}`)}
	wrapped := RateLimitMiddleware(rate.Limit(0.001), 1)(core)

	ctx := context.Background()
	_, err := wrapped.DoTask(ctx, TaskAssign, nil)
	require.NoError(t, err)

	// The bucket is empty and refills far too slowly; the deadline wins.
	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = wrapped.DoTask(shortCtx, TaskAssign, nil)
	require.Error(t, err)
	assert.Equal(t, 1, core.CallCount())
}

func TestRateLimitMiddleware_SharedAcrossWrappedInstances(t *testing.T) {
	mw := RateLimitMiddleware(rate.Limit(1), 1)
	coreA := &MockCoreAgent{Result: []byte(`{}`)}
	coreB := &MockCoreAgent{Result: []byte(`{}`)}
	wrappedA := mw(coreA)
	wrappedB := mw(coreB)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := wrappedA.DoTask(ctx, TaskAssign, nil)
	require.NoError(t, err)

	// Both wrappers draw from one bucket, so B finds it empty.
	_, err = wrappedB.DoTask(ctx, TaskAssign, nil)
	require.Error(t, err)
	assert.Equal(t, 0, coreB.CallCount())
}
