package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ DLQ = (*dlqMetrics)(nil)

type dlqMetrics struct {
	sent       *prometheus.CounterVec
	retryCount *prometheus.HistogramVec
	errors     *prometheus.CounterVec
}

func newDLQMetrics(registry *promRegistry) *dlqMetrics {
	sent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Subsystem: "dlq",
			Name:      "messages_sent_total",
			Help:      "Commands written to the dead letter topic",
		},
		[]string{"dlq_topic", "original_topic"},
	)

	retryCount := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: _namespace,
			Subsystem: "dlq",
			Name:      "retry_count",
			Help:      "Attempts a command went through before it was dead-lettered",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"original_topic"},
	)

	errors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Subsystem: "dlq",
			Name:      "errors_total",
			Help:      "Failures writing to the dead letter topic, by reason",
		},
		[]string{"dlq_topic", "reason"},
	)

	registry.registry.MustRegister(sent, retryCount, errors)

	return &dlqMetrics{
		sent:       sent,
		retryCount: retryCount,
		errors:     errors,
	}
}

func (m *dlqMetrics) DLSent(dlqTopic string, originalTopic string, retryCount int) {
	m.sent.WithLabelValues(dlqTopic, originalTopic).Inc()
	m.DLRetryCount(originalTopic, retryCount)
}

func (m *dlqMetrics) DLRetryCount(originalTopic string, retryCount int) {
	m.retryCount.WithLabelValues(originalTopic).Observe(float64(retryCount))
}

func (m *dlqMetrics) DLError(dlqTopic string, reason string) {
	m.errors.WithLabelValues(dlqTopic, reason).Inc()
}
