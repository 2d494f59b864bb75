package kafka

import (
	"context"
	"fmt"
	"time"

	"phonebook/pkg/logger"

	"github.com/segmentio/kafka-go"
)

const _dialTimeout = 5 * time.Second

// NewReader builds a consumer group reader for topic and checks that every
// broker accepts connections.
func NewReader(ctx context.Context, brokers []string, topic, groupID string, log logger.Logger) (*kafka.Reader, error) {
	const op = "kafka.NewReader"

	if err := checkConnection(ctx, brokers, log); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.DebugLevel, "kafka reader info",
				logger.String("topic", topic),
				logger.String("group_id", groupID),
				logger.String("message", fmt.Sprintf(msg, args...)),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.ErrorLevel, "kafka reader error",
				logger.String("topic", topic),
				logger.String("group_id", groupID),
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	})

	return reader, nil
}

// NewWriter builds a synchronous writer that balances by message key, so all
// commands for one phone land on the same partition.
func NewWriter(brokers []string, topic string, log logger.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.ErrorLevel, "kafka writer error",
				logger.String("topic", topic),
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	}
}

func checkConnection(ctx context.Context, brokers []string, log logger.Logger) error {
	const op = "kafka.checkConnection"

	dialer := &kafka.Dialer{Timeout: _dialTimeout}
	for _, broker := range brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			return fmt.Errorf("%s: connect to %s: %w", op, broker, err)
		}

		if err = conn.Close(); err != nil {
			log.Warnw("failed to close connection",
				"operation", op,
				"broker", broker,
				"error", err)
		}
	}
	return nil
}
