package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juryline/engine/internal/ports"
	"github.com/juryline/engine/internal/testutils"
)

func TestMetricsMiddleware_RecordsSuccess(t *testing.T) {
	metrics := testutils.NewCapturingMetrics()
	core := &MockCoreAgent{Result: []byte(`{}`)}
	wrapped := MetricsMiddleware(metrics)(core)

	_, err := wrapped.DoTask(context.Background(), TaskAssign, []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, float64(1), metrics.Counter("agent_tasks_total"))
	assert.Equal(t, 1, metrics.HistogramCount("agent_task_latency_seconds"))
}

func TestMetricsMiddleware_RecordsFailures(t *testing.T) {
	metrics := testutils.NewCapturingMetrics()
	core := &MockCoreAgent{Err: ports.NewAgentError("mock", TaskAssign, ports.ErrAgentDeclined)}
	wrapped := MetricsMiddleware(metrics)(core)

	_, err := wrapped.DoTask(context.Background(), TaskAssign, []byte(`{}`))
	require.Error(t, err)

	assert.Equal(t, float64(1), metrics.Counter("agent_tasks_total"))
}

func TestMetricsMiddleware_NilCollectorPassesThrough(t *testing.T) {
	core := &MockCoreAgent{Result: []byte(`{"ok": true}`)}
	wrapped := MetricsMiddleware(nil)(core)

	result, err := wrapped.DoTask(context.Background(), TaskIngest, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, string(result))
}
