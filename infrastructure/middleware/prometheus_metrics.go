// Package middleware provides cross-cutting concerns for the judging
// engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/juryline/engine/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of engine operations,
// agent delegation, and assignment throughput.
type PrometheusMetrics struct {
	operationCounter *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	agentTasks       *prometheus.CounterVec
	agentLatency     *prometheus.HistogramVec
	assignmentBatch  prometheus.Histogram
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judging_operations_total",
				Help: "Total number of engine operations, by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		operationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judging_operation_duration_seconds",
				Help:    "Execution time of engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		agentTasks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judging_agent_tasks_total",
				Help: "Total number of external agent task invocations, by backend, task, and outcome.",
			},
			[]string{"provider", "task", "status"},
		),
		agentLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judging_agent_task_duration_seconds",
				Help:    "Round-trip time of external agent tasks.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "task"},
		),
		assignmentBatch: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "judging_assignment_batch_size",
				Help:    "Number of judge assignments produced per recomputation.",
				Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "judging_system_state",
				Help: "Current system state values for the judging engine.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// operation latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "agent_tasks_total":
		pm.agentTasks.WithLabelValues(
			labelOrUnknown(labels, "provider"),
			labelOrUnknown(labels, "task"),
			labelOrUnknown(labels, "status"),
		).Add(value)
	case "engine_operations_total":
		pm.operationCounter.WithLabelValues(
			labelOrUnknown(labels, "operation"),
			labelOrUnknown(labels, "status"),
		).Add(value)
	default:
		// Decline, fallback, and rejection counters share the operation
		// counter with the metric name as the operation label.
		pm.operationCounter.WithLabelValues(metric, labelOrUnknown(labels, "operation")).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in the metric-appropriate histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "assignment_batch_size":
		pm.assignmentBatch.Observe(value)
	case "agent_task_latency_seconds":
		pm.agentLatency.WithLabelValues(
			labelOrUnknown(labels, "provider"),
			labelOrUnknown(labels, "task"),
		).Observe(value)
	default:
		pm.operationLatency.WithLabelValues(metric).Observe(value)
	}
}

// labelOrUnknown returns the named label value, or "unknown" when absent.
func labelOrUnknown(labels map[string]string, key string) string {
	if v, ok := labels[key]; ok && v != "" {
		return v
	}
	return "unknown"
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
