package storage

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"phonebook/pkg/logger"
)

const _backoffMultiplier = 2

// RetryPolicy bounds the jittered exponential backoff used while a
// backend is being dialled.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func (p RetryPolicy) Validate() error {
	if p.Attempts <= 0 {
		return errors.New("invalid connAttempts: must be > 0")
	}

	if p.BaseDelay <= 0 {
		return errors.New("invalid base retry delay: must be > 0")
	}

	if p.MaxDelay <= 0 {
		return errors.New("invalid max retry delay: must be > 0")
	}

	if p.BaseDelay > p.MaxDelay {
		return errors.New("baseRetryDelay cannot exceed maxRetryDelay")
	}
	return nil
}

// Connect calls fn until it succeeds, the attempts run out or ctx is done.
// The last error is returned wrapped.
func Connect(
	ctx context.Context,
	log logger.Logger,
	backend string,
	policy RetryPolicy,
	fn func(ctx context.Context) error,
) error {
	var err error

	currentBackoff := policy.BaseDelay
	for attemptCount := 1; attemptCount <= policy.Attempts; attemptCount++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attemptCount == policy.Attempts {
			break
		}

		jitter := time.Duration(
			rand.Int64N(int64(currentBackoff * _backoffMultiplier)),
		)
		if jitter > policy.MaxDelay {
			jitter = policy.MaxDelay
		}

		log.Infow("storage connection attempt failed",
			"backend", backend,
			"attempt", attemptCount,
			"retry_after", jitter.String(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: connect: %w", backend, ctx.Err())
		case <-time.After(jitter):
		}

		nextBackoff := currentBackoff * _backoffMultiplier
		if nextBackoff > policy.MaxDelay {
			nextBackoff = policy.MaxDelay
		}
		currentBackoff = nextBackoff
	}

	return fmt.Errorf("%s: connect after %d attempts: %w", backend, policy.Attempts, err)
}
