package kafkat

//go:generate mockgen -source=kafka_transport.go -destination=mock/kafka.go -package=mock_kafkat

import (
	"context"

	"phonebook/internal/entity"

	"github.com/segmentio/kafka-go"
)

type (
	MessageReader interface {
		ReadMessage(ctx context.Context) (kafka.Message, error)
		Close() error
	}

	CommandService interface {
		ApplyCommand(ctx context.Context, cmd *entity.AddressCommand) error
	}

	DeadLetterQueue interface {
		Process(ctx context.Context, msg kafka.Message, handler func(context.Context, kafka.Message) error) error
		Send(ctx context.Context, msg kafka.Message, err error, retryCount int) error
	}
)

var _ MessageReader = (*kafka.Reader)(nil)
