package kafkat

import (
	"context"
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

const _dlqHandleTimeout = 2 * time.Second

const (
	_reasonMalformed     = "malformed"
	_reasonRetryExceeded = "retry_limit_exceeded"
)

// DLQProcessor re-applies dead-lettered commands. A command that fails again
// with a retryable error goes back to the DLQ with its retry count bumped.
type DLQProcessor struct {
	reader     MessageReader
	dlq        DeadLetterQueue
	svc        CommandService
	metric     metric.Kafka
	maxRetries int
	retryDelay time.Duration
	log        logger.Logger
}

func NewDLQProcessor(
	reader MessageReader,
	dlq DeadLetterQueue,
	svc CommandService,
	metric metric.Kafka,
	maxRetries int,
	retryDelay time.Duration,
	log logger.Logger,
) *DLQProcessor {
	return &DLQProcessor{
		reader:     reader,
		dlq:        dlq,
		svc:        svc,
		metric:     metric,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		log:        log,
	}
}

func (p *DLQProcessor) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return p.run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		p.log.Infow("dlq processor shutting down")
		return p.reader.Close()
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("transport.kafka.DLQProcessor.Start: %w", err)
	}
	return nil
}

func (p *DLQProcessor) run(ctx context.Context) error {
	for {
		msg, err := p.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			p.log.Errorw("read dlq message", "error", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(_readFailurePause):
			}
			continue
		}

		p.processMessage(ctx, msg)
	}
}

func (p *DLQProcessor) processMessage(ctx context.Context, msg kafka.Message) {
	envelope, err := dlq.Decode(msg.Value)
	if err != nil {
		p.log.Errorw("unmarshal dlq message",
			"error", err,
			"offset", msg.Offset,
		)
		p.metric.MessageFailed(msg.Topic, msg.Partition, _reasonMalformed)
		return
	}

	retryCount := envelope.Metadata.RetryCount
	if retryCount >= p.maxRetries {
		p.log.Warnw("dropping dlq message after max retries",
			"offset", msg.Offset,
			"retry_count", retryCount,
			"last_error", envelope.Metadata.Error,
		)
		p.metric.MessageFailed(msg.Topic, msg.Partition, _reasonRetryExceeded)
		return
	}

	cmd, err := decodeCommand([]byte(envelope.Payload))
	if err != nil {
		p.log.Errorw("unmarshal dlq payload",
			"error", err,
			"offset", msg.Offset,
		)
		p.metric.MessageFailed(msg.Topic, msg.Partition, _reasonMalformed)
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(p.retryDelay):
	}

	handleCtx, cancel := context.WithTimeout(ctx, _dlqHandleTimeout)
	defer cancel()

	err = p.svc.ApplyCommand(handleCtx, cmd)
	switch {
	case err == nil:
		p.log.Infow("dlq message processed successfully",
			"offset", msg.Offset,
			"op", cmd.Op,
			"retry_count", retryCount,
		)
	case cmd.Op == entity.CommandCreate && errors.Is(err, entity.ErrPhoneAlreadyExists):
		p.log.Infow("phone already exists, skipping",
			"offset", msg.Offset,
		)
	case service.IsTerminal(err):
		p.log.Warnw("dlq command rejected",
			"offset", msg.Offset,
			"error", err,
		)
		p.metric.MessageFailed(msg.Topic, msg.Partition, _reasonRejected)
	default:
		p.requeue(ctx, msg, envelope, err)
	}
}

// requeue writes the original command back with the retry count bumped. The
// envelope is rebuilt from the original coordinates so it never nests.
func (p *DLQProcessor) requeue(ctx context.Context, msg kafka.Message, envelope *dlq.Message, cause error) {
	original := kafka.Message{
		Topic:     envelope.Metadata.OriginalTopic,
		Partition: envelope.Metadata.Partition,
		Offset:    envelope.Metadata.Offset,
		Key:       msg.Key,
		Value:     []byte(envelope.Payload),
	}
	retryCount := envelope.Metadata.RetryCount + 1

	p.log.Errorw("retry dlq message",
		"error", cause,
		"offset", msg.Offset,
		"retry_count", retryCount,
	)

	if err := p.dlq.Send(ctx, original, cause, retryCount); err != nil {
		p.log.Errorw("failed to send to DLQ",
			"offset", msg.Offset,
			"retry_count", retryCount,
			"error", err,
		)
		p.metric.MessageFailed(msg.Topic, msg.Partition, _reasonDLQWriteFailed)
	}
}
