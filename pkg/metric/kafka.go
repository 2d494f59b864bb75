package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Kafka = (*kafkaMetrics)(nil)

type kafkaMetrics struct {
	messagesProcessed *prometheus.CounterVec
	messagesFailed    *prometheus.CounterVec
	consumerGroupLag  *prometheus.GaugeVec
}

func newKafkaMetrics(registry *promRegistry) *kafkaMetrics {
	processed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Subsystem: "kafka",
			Name:      "messages_processed_total",
			Help:      "Command messages read from Kafka",
		},
		[]string{"topic", "partition"},
	)

	failed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Subsystem: "kafka",
			Name:      "messages_failed_total",
			Help:      "Command messages that were not applied, by reason",
		},
		[]string{"topic", "partition", "reason"},
	)

	lag := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: _namespace,
			Subsystem: "kafka",
			Name:      "consumer_lag",
			Help:      "Messages behind the partition high water mark",
		},
		[]string{"topic", "partition"},
	)

	registry.registry.MustRegister(processed, failed, lag)

	return &kafkaMetrics{
		messagesProcessed: processed,
		messagesFailed:    failed,
		consumerGroupLag:  lag,
	}
}

func (m *kafkaMetrics) MessageProcessed(topic string, partition int) {
	m.messagesProcessed.WithLabelValues(topic, partitionString(partition)).Inc()
}

func (m *kafkaMetrics) MessageFailed(topic string, partition int, reason string) {
	m.messagesFailed.WithLabelValues(topic, partitionString(partition), reason).Inc()
}

func (m *kafkaMetrics) ConsumerGroupLag(topic string, partition int, lag int64) {
	m.consumerGroupLag.WithLabelValues(topic, partitionString(partition)).Set(float64(lag))
}

func partitionString(partition int) string {
	if partition == -1 {
		return "all"
	}
	return strconv.Itoa(partition)
}
