package dlq

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"phonebook/internal/config"
	"phonebook/pkg/logger"
	"phonebook/pkg/metric"

	"github.com/segmentio/kafka-go"
)

const (
	_defaultMaxAttempts    = 10
	_defaultBaseRetryDelay = 100 * time.Millisecond
	_defaultMaxRetryDelay  = 5 * time.Second

	_backoffMultiplier = 2
)

// ErrDeadLettered is returned by Process once a message exhausted its
// attempts and was written to the dead letter topic.
var ErrDeadLettered = errors.New("message sent to dead letter queue")

type (
	Writer interface {
		WriteMessages(ctx context.Context, msgs ...kafka.Message) error
		Close() error
	}

	Metadata struct {
		OriginalTopic string `json:"original_topic"`
		Partition     int    `json:"partition"`
		Offset        int64  `json:"offset"`
		RetryCount    int    `json:"retry_count"`
		Error         string `json:"error"`
		Timestamp     string `json:"timestamp"`
	}

	// Message is the envelope written to the dead letter topic.
	Message struct {
		Metadata Metadata `json:"metadata"`
		Payload  string   `json:"payload"`
	}

	DLQ struct {
		writer  Writer
		topic   string
		log     logger.Logger
		metrics metric.DLQ

		maxAttempts    int
		baseRetryDelay time.Duration
		maxRetryDelay  time.Duration
	}
)

func NewDLQ(cfg config.DLQ, log logger.Logger, metrics metric.DLQ, opts ...Option) (*DLQ, error) {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Async:                  false,
		AllowAutoTopicCreation: true,
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		ReadTimeout:            cfg.ReadTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.DebugLevel, "dlq writer info",
				logger.String("message", fmt.Sprintf(msg, args...)),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.ErrorLevel, "dlq writer error",
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	}

	return New(writer, cfg.Topic, log, metrics, opts...)
}

func New(writer Writer, topic string, log logger.Logger, metrics metric.DLQ, opts ...Option) (*DLQ, error) {
	dlq := &DLQ{
		writer:  writer,
		topic:   topic,
		log:     log,
		metrics: metrics,

		maxAttempts:    _defaultMaxAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
	}

	for _, opt := range opts {
		opt(dlq)
	}

	if err := dlq.validate(); err != nil {
		return nil, fmt.Errorf("kafka.dlq.New: validation: %w", err)
	}

	return dlq, nil
}

func (d *DLQ) MaxAttempts() int {
	return d.maxAttempts
}

func (d *DLQ) Close() error {
	if err := d.writer.Close(); err != nil {
		return fmt.Errorf("kafka.dlq.Close: %w", err)
	}
	return nil
}

// Decode parses a dead letter envelope.
func Decode(value []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(value, &msg); err != nil {
		return nil, fmt.Errorf("kafka.dlq.Decode: %w", err)
	}
	return &msg, nil
}

func (d *DLQ) Send(
	ctx context.Context,
	originalMsg kafka.Message,
	cause error,
	retryCount int,
) error {
	const op = "kafka.dlq.Send"

	envelope := Message{
		Metadata: Metadata{
			OriginalTopic: originalMsg.Topic,
			Partition:     originalMsg.Partition,
			Offset:        originalMsg.Offset,
			RetryCount:    retryCount,
			Error:         cause.Error(),
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		},
		Payload: string(originalMsg.Value),
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		d.log.Errorw("failed to marshal dlq message",
			"op", op,
			"error", err,
			"original_offset", originalMsg.Offset,
			"payload_base64", base64.StdEncoding.EncodeToString(originalMsg.Value),
		)
		d.metrics.DLError(d.topic, "marshal_failed")
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   originalMsg.Key,
		Value: value,
	})
	if err != nil {
		d.log.Errorw("failed to send message to dlq",
			"op", op,
			"error", err,
			"offset", originalMsg.Offset,
		)
		d.metrics.DLError(d.topic, "write_failed")
		return fmt.Errorf("%s: send message: %w", op, err)
	}

	d.metrics.DLSent(d.topic, originalMsg.Topic, retryCount)

	d.log.Infow("message sent to dlq",
		"op", op,
		"topic", d.topic,
		"offset", originalMsg.Offset,
		"retry_count", retryCount,
	)

	return nil
}

// Process runs handler until it succeeds, returns a permanent error, or the
// attempts run out. An exhausted message is written to the dead letter topic
// and ErrDeadLettered is returned wrapping the last failure.
func (d *DLQ) Process(
	ctx context.Context,
	msg kafka.Message,
	handler func(context.Context, kafka.Message) error,
) error {
	const op = "kafka.dlq.Process"

	var err error
	backoff := d.baseRetryDelay

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: context: %w", op, ctxErr)
		}

		err = handler(ctx, msg)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}

		log := d.log.Ctx(ctx)
		log.LogAttrs(ctx, logger.WarnLevel, "message processing failed",
			logger.String("operation", op),
			logger.Int64("offset", msg.Offset),
			logger.Int("attempt", attempt),
			logger.Err(err),
		)

		if attempt == d.maxAttempts {
			break
		}

		wait := jitter(backoff, d.maxRetryDelay)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("%s: context done: %w", op, ctx.Err())
		}

		backoff = min(backoff*_backoffMultiplier, d.maxRetryDelay)
	}

	if sendErr := d.Send(ctx, msg, err, d.maxAttempts); sendErr != nil {
		return fmt.Errorf("%s: %w", op, sendErr)
	}
	return fmt.Errorf("%w: %w", ErrDeadLettered, err)
}

func jitter(backoff, ceiling time.Duration) time.Duration {
	wait := time.Duration(rand.Int64N(int64(backoff*_backoffMultiplier) + 1))
	return min(wait, ceiling)
}
