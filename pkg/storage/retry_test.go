package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"phonebook/pkg/logger"
	"phonebook/pkg/storage"

	"github.com/stretchr/testify/require"
)

var errDial = errors.New("dial tcp: connection refused")

func TestConnect(t *testing.T) {
	policy := storage.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	testCases := []struct {
		desc      string
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{desc: "FirstAttempt", failures: 0, wantCalls: 1},
		{desc: "RecoversOnLastAttempt", failures: 2, wantCalls: 3},
		{desc: "GivesUp", failures: 5, wantCalls: 3, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			calls := 0
			err := storage.Connect(context.Background(), logger.NewNop(), "test", policy,
				func(context.Context) error {
					calls++
					if calls <= tc.failures {
						return errDial
					}
					return nil
				})

			require.Equal(t, tc.wantCalls, calls)
			if tc.wantErr {
				require.ErrorIs(t, err, errDial)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConnect_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := storage.RetryPolicy{Attempts: 5, BaseDelay: time.Second, MaxDelay: time.Second}
	err := storage.Connect(ctx, logger.NewNop(), "test", policy, func(context.Context) error {
		return errDial
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetryPolicy_Validate(t *testing.T) {
	require.NoError(t, storage.RetryPolicy{Attempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Second}.Validate())
	require.Error(t, storage.RetryPolicy{Attempts: 0, BaseDelay: time.Millisecond, MaxDelay: time.Second}.Validate())
	require.Error(t, storage.RetryPolicy{Attempts: 1, BaseDelay: 0, MaxDelay: time.Second}.Validate())
	require.Error(t, storage.RetryPolicy{Attempts: 1, BaseDelay: 2 * time.Second, MaxDelay: time.Second}.Validate())
}
