package kafkat

import (
	"context"
	"errors"
	"testing"
	"time"

	"phonebook/internal/entity"
	mock_kafkat "phonebook/internal/transport/kafka/mock"
	"phonebook/pkg/kafka/dlq"
	"phonebook/pkg/logger"
	mock_metric "phonebook/pkg/metric/mock"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

const _maxRetries = 3

func envelopeMessage(t *testing.T, cmd entity.AddressCommand, retryCount int) kafka.Message {
	t.Helper()

	ctrl := gomock.NewController(t)
	writer := &recordingWriter{}
	d := newTestDLQ(t, ctrl, writer)

	require.NoError(t, d.Send(context.Background(), commandMessage(t, cmd), errors.New("connection refused"), retryCount))
	written := writer.written()
	require.Len(t, written, 1)

	msg := written[0]
	msg.Topic = _dlqTopic
	msg.Offset = 11
	return msg
}

func TestDLQProcessor_ProcessMessage(t *testing.T) {
	fields := entity.AddressFields{
		Street:        "123 Main St",
		City:          "Anytown",
		StateProvince: "NY",
		PostalCode:    "12345",
		Country:       "US",
	}
	create := entity.AddressCommand{Op: entity.CommandCreate, Phone: _phone, Address: &fields}

	testCases := []struct {
		desc       string
		cmd        entity.AddressCommand
		retryCount int
		malformed  bool
		applyErr   error
		applied    bool
		reason     string
		requeued   bool
	}{
		{desc: "Applied", cmd: create, retryCount: 1, applied: true},
		{desc: "AlreadyApplied", cmd: create, retryCount: 1, applied: true, applyErr: entity.ErrPhoneAlreadyExists},
		{desc: "Rejected", cmd: deleteCommand(), retryCount: 1, applied: true, applyErr: entity.ErrPhoneNotFound, reason: _reasonRejected},
		{desc: "Requeued", cmd: deleteCommand(), retryCount: 1, applied: true, applyErr: errors.New("timeout"), requeued: true},
		{desc: "RetryLimit", cmd: deleteCommand(), retryCount: _maxRetries, reason: _reasonRetryExceeded},
		{desc: "MalformedEnvelope", cmd: deleteCommand(), malformed: true, reason: _reasonMalformed},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			svc := mock_kafkat.NewMockCommandService(ctrl)
			metrics := mock_metric.NewMockKafka(ctrl)

			msg := envelopeMessage(t, tc.cmd, tc.retryCount)
			if tc.malformed {
				msg.Value = []byte("not json")
			}

			if tc.applied {
				svc.EXPECT().ApplyCommand(gomock.Any(), gomock.Any()).Return(tc.applyErr).Times(1)
			}
			if tc.reason != "" {
				metrics.EXPECT().MessageFailed(_dlqTopic, 0, tc.reason).Times(1)
			}

			writer := &recordingWriter{}
			processor := NewDLQProcessor(nil, newTestDLQ(t, ctrl, writer), svc, metrics,
				_maxRetries, time.Millisecond, logger.NewNop())

			processor.processMessage(context.Background(), msg)

			written := writer.written()
			if !tc.requeued {
				require.Empty(t, written)
				return
			}

			require.Len(t, written, 1)
			envelope, err := dlq.Decode(written[0].Value)
			require.NoError(t, err)
			require.Equal(t, tc.retryCount+1, envelope.Metadata.RetryCount)
			require.Equal(t, _topic, envelope.Metadata.OriginalTopic)
			require.Equal(t, int64(7), envelope.Metadata.Offset)
			require.Equal(t, string(commandMessage(t, tc.cmd).Value), envelope.Payload)
		})
	}
}

func TestDLQProcessor_RequeueWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock_kafkat.NewMockCommandService(ctrl)
	metrics := mock_metric.NewMockKafka(ctrl)
	deadLetters := mock_kafkat.NewMockDeadLetterQueue(ctrl)

	msg := envelopeMessage(t, deleteCommand(), 2)
	cause := errors.New("timeout")

	svc.EXPECT().ApplyCommand(gomock.Any(), gomock.Any()).Return(cause)
	deadLetters.EXPECT().
		Send(gomock.Any(), gomock.Any(), cause, 3).
		DoAndReturn(func(_ context.Context, original kafka.Message, _ error, _ int) error {
			require.Equal(t, _topic, original.Topic)
			require.Equal(t, int64(7), original.Offset)
			return errors.New("broker unavailable")
		})
	metrics.EXPECT().MessageFailed(_dlqTopic, 0, _reasonDLQWriteFailed)

	processor := NewDLQProcessor(nil, deadLetters, svc, metrics, _maxRetries, time.Millisecond, logger.NewNop())
	processor.processMessage(context.Background(), msg)
}
