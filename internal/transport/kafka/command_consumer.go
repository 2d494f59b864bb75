package kafkat

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"phonebook/internal/entity"
	"phonebook/internal/service"
	"phonebook/pkg/kafka/dlq"
	"phonebook/pkg/logger"
	"phonebook/pkg/metric"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

const _readFailurePause = 500 * time.Millisecond

const (
	_reasonRejected       = "rejected"
	_reasonDeadLettered   = "dead_lettered"
	_reasonDLQWriteFailed = "dlq_write_failed"
)

type CommandConsumer struct {
	reader MessageReader
	dlq    DeadLetterQueue
	svc    CommandService
	metric metric.Kafka
	log    logger.Logger
}

func NewCommandConsumer(
	reader MessageReader,
	dlq DeadLetterQueue,
	svc CommandService,
	metric metric.Kafka,
	log logger.Logger,
) *CommandConsumer {
	return &CommandConsumer{
		reader: reader,
		dlq:    dlq,
		svc:    svc,
		metric: metric,
		log:    log,
	}
}

func (c *CommandConsumer) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return c.run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		c.log.Infow("shutting down command consumer")
		return c.reader.Close()
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("transport.kafka.CommandConsumer.Start: %w", err)
	}
	return nil
}

func (c *CommandConsumer) run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.log.Errorw("kafka read failed", "error", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(_readFailurePause):
			}
			continue
		}

		c.metric.MessageProcessed(msg.Topic, msg.Partition)
		if msg.HighWaterMark > 0 {
			c.metric.ConsumerGroupLag(msg.Topic, msg.Partition, msg.HighWaterMark-msg.Offset-1)
		}

		c.processMessage(ctx, msg)
	}
}

func (c *CommandConsumer) processMessage(ctx context.Context, msg kafka.Message) {
	ctx = c.log.WithRequestID(ctx, c.log.GenerateRequestID())
	log := c.log.Ctx(ctx)

	log.Debugw("processing kafka message",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)

	err := c.dlq.Process(ctx, msg, c.handleMessage)
	switch {
	case err == nil:
	case dlq.IsPermanent(err):
		log.Warnw("command rejected",
			"offset", msg.Offset,
			"error", err,
		)
		c.metric.MessageFailed(msg.Topic, msg.Partition, _reasonRejected)
	case errors.Is(err, dlq.ErrDeadLettered):
		log.Infow("command sent to DLQ after max retries",
			"offset", msg.Offset,
			"error", err,
		)
		c.metric.MessageFailed(msg.Topic, msg.Partition, _reasonDeadLettered)
	case ctx.Err() != nil:
	default:
		log.Errorw("critical: failed to send to DLQ after retries",
			"offset", msg.Offset,
			"error", err,
			"payload_hash", fmt.Sprintf("%x", sha256.Sum256(msg.Value)),
		)
		c.metric.MessageFailed(msg.Topic, msg.Partition, _reasonDLQWriteFailed)
	}
}

func (c *CommandConsumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	const op = "transport.kafka.CommandConsumer.handleMessage"

	cmd, err := decodeCommand(msg.Value)
	if err != nil {
		return dlq.Permanent(fmt.Errorf("%s: %w", op, err))
	}

	if err = c.svc.ApplyCommand(ctx, cmd); err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		if service.IsTerminal(err) {
			return dlq.Permanent(err)
		}
		return err
	}

	c.log.Ctx(ctx).Infow("command applied from kafka",
		"op", cmd.Op,
		"offset", msg.Offset,
	)

	return nil
}

func decodeCommand(value []byte) (*entity.AddressCommand, error) {
	var cmd entity.AddressCommand
	if err := json.Unmarshal(value, &cmd); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", entity.ErrInvalidCommand, err)
	}
	return &cmd, nil
}
