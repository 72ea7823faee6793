package agent

import (
	"context"
	"errors"
	"time"

	"github.com/juryline/engine/internal/ports"
)

// metricsAgent records task latency, outcome counts, and failure classes
// for operational monitoring of agent backends.
type metricsAgent struct {
	next      CoreAgent
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that collects task metrics. This
// enables monitoring of agent usage, latency, and error rates per backend
// and per task.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreAgent) CoreAgent {
		return &metricsAgent{
			next:      next,
			collector: collector,
		}
	}
}

// DoTask executes the task while collecting metrics. The status label
// distinguishes declines, circuit trips, timeouts, and hard errors so
// fallback behavior shows up in dashboards.
func (m *metricsAgent) DoTask(ctx context.Context, task string, payload []byte) ([]byte, error) {
	start := time.Now()
	result, err := m.next.DoTask(ctx, task, payload)

	labels := map[string]string{
		"provider": m.next.Provider(),
		"task":     task,
		"status":   "success",
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrCircuitOpen):
		labels["status"] = "circuit_open"
	case errors.Is(err, ports.ErrAgentDeclined):
		labels["status"] = "declined"
	case errors.Is(err, ports.ErrTimeout) || ctx.Err() == context.DeadlineExceeded:
		labels["status"] = "timeout"
	default:
		labels["status"] = "error"
	}

	if m.collector != nil {
		m.collector.RecordHistogram("agent_task_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordCounter("agent_tasks_total", 1, labels)
	}

	return result, err
}

// Provider returns the provider name from the wrapped implementation.
func (m *metricsAgent) Provider() string { return m.next.Provider() }
