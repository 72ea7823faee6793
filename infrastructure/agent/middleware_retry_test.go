package agent

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juryline/engine/internal/ports"
)

func TestRetryMiddleware_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	core := &MockCoreAgent{DoTaskFunc: func(context.Context, string, []byte) ([]byte, error) {
		if calls.Add(1) < 3 {
			return nil, ports.NewAgentError("mock", TaskAssign, ports.ErrServiceUnavailable)
		}
		return []byte(`{}`), nil
	}}
	wrapped := RetryMiddleware(3, time.Millisecond, 10*time.Millisecond)(core)

	result, err := wrapped.DoTask(context.Background(), TaskAssign, nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(result))
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetryMiddleware_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	core := &MockCoreAgent{DoTaskFunc: func(context.Context, string, []byte) ([]byte, error) {
		calls.Add(1)
		return nil, ports.NewAgentError("mock", TaskAssign, ports.ErrRateLimited)
	}}
	wrapped := RetryMiddleware(2, time.Millisecond, 10*time.Millisecond)(core)

	_, err := wrapped.DoTask(context.Background(), TaskAssign, nil)
	require.ErrorIs(t, err, ports.ErrRateLimited)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetryMiddleware_DoesNotRetryDeclines(t *testing.T) {
	var calls atomic.Int32
	core := &MockCoreAgent{DoTaskFunc: func(context.Context, string, []byte) ([]byte, error) {
		calls.Add(1)
		return nil, ports.NewAgentError("mock", TaskAssign, ports.ErrAgentDeclined)
	}}
	wrapped := RetryMiddleware(3, time.Millisecond, 10*time.Millisecond)(core)

	_, err := wrapped.DoTask(context.Background(), TaskAssign, nil)
	require.ErrorIs(t, err, ports.ErrAgentDeclined)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryMiddleware_DoesNotRetryOpenCircuit(t *testing.T) {
	var calls atomic.Int32
	core := &MockCoreAgent{DoTaskFunc: func(context.Context, string, []byte) ([]byte, error) {
		calls.Add(1)
		return nil, ErrCircuitOpen
	}}
	wrapped := RetryMiddleware(3, time.Millisecond, 10*time.Millisecond)(core)

	_, err := wrapped.DoTask(context.Background(), TaskAssign, nil)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryMiddleware_StopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	core := &MockCoreAgent{DoTaskFunc: func(context.Context, string, []byte) ([]byte, error) {
		calls.Add(1)
		cancel()
		return nil, ports.NewAgentError("mock", TaskAssign, ports.ErrServiceUnavailable)
	}}
	wrapped := RetryMiddleware(5, time.Millisecond, 10*time.Millisecond)(core)

	_, err := wrapped.DoTask(ctx, TaskAssign, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
