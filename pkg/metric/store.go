package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Store = (*storeMetrics)(nil)

type storeMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	outcomes *prometheus.CounterVec
}

func newStoreMetrics(registry *promRegistry) *storeMetrics {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: _namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of key-value store operations in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1.0},
		},
		[]string{"backend", "operation"},
	)

	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Subsystem: "store",
			Name:      "operation_failures_total",
			Help:      "Key-value store operations that returned an error",
		},
		[]string{"backend", "operation"},
	)

	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "operations_total",
			Help:      "Phonebook operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	registry.registry.MustRegister(duration, failures, outcomes)

	return &storeMetrics{
		duration: duration,
		failures: failures,
		outcomes: outcomes,
	}
}

func (m *storeMetrics) ObserveDuration(backend, operation string, duration time.Duration) {
	m.duration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

func (m *storeMetrics) IncrementFailures(backend, operation string) {
	m.failures.WithLabelValues(backend, operation).Inc()
}

func (m *storeMetrics) Outcome(operation, outcome string) {
	m.outcomes.WithLabelValues(operation, outcome).Inc()
}
