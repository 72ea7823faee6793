package testutils

import (
	"sync"
	"time"

	"github.com/juryline/engine/internal/ports"
)

var _ ports.MetricsCollector = (*CapturingMetrics)(nil)

// CapturingMetrics is a MetricsCollector that records observations in memory
// for assertion.
type CapturingMetrics struct {
	mu         sync.Mutex
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
	latencies  map[string][]time.Duration
}

// NewCapturingMetrics creates an empty CapturingMetrics.
func NewCapturingMetrics() *CapturingMetrics {
	return &CapturingMetrics{
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
		latencies:  make(map[string][]time.Duration),
	}
}

// RecordLatency implements ports.MetricsCollector.
func (c *CapturingMetrics) RecordLatency(operation string, d time.Duration, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latencies[operation] = append(c.latencies[operation], d)
}

// RecordCounter implements ports.MetricsCollector.
func (c *CapturingMetrics) RecordCounter(metric string, value float64, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[metric] += value
}

// RecordGauge implements ports.MetricsCollector.
func (c *CapturingMetrics) RecordGauge(metric string, value float64, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gauges[metric] = value
}

// RecordHistogram implements ports.MetricsCollector.
func (c *CapturingMetrics) RecordHistogram(metric string, value float64, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.histograms[metric] = append(c.histograms[metric], value)
}

// Counter returns the accumulated value for a counter metric.
func (c *CapturingMetrics) Counter(metric string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[metric]
}

// HistogramCount returns how many observations a histogram received.
func (c *CapturingMetrics) HistogramCount(metric string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.histograms[metric])
}

// LatencyCount returns how many latency observations an operation received.
func (c *CapturingMetrics) LatencyCount(operation string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.latencies[operation])
}
