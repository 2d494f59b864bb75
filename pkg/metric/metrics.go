package metric

//go:generate mockgen -source=metrics.go -destination=mock/metrics.go -package=mock_metric

import (
	"net/http"
	"time"
)

type (
	Factory interface {
		HTTP() HTTP
		Store() Store
		Cache() Cache
		Kafka() Kafka
		DLQ() DLQ
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	Store interface {
		ObserveDuration(backend, operation string, duration time.Duration)
		IncrementFailures(backend, operation string)
		Outcome(operation, outcome string)
	}

	Cache interface {
		Hit(cacheType string)
		Miss(cacheType string)
		Eviction(cacheType string, reason string)
		Size(cacheType string, size int)
	}

	Kafka interface {
		MessageProcessed(topic string, partition int)
		MessageFailed(topic string, partition int, reason string)
		ConsumerGroupLag(topic string, partition int, lag int64)
	}

	DLQ interface {
		DLSent(topic string, originalTopic string, retryCount int)
		DLError(topic string, reason string)
		DLRetryCount(originalTopic string, retryCount int)
	}
)
