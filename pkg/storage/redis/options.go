package redis

import (
	"errors"
	"time"

	"phonebook/pkg/storage"
)

type Option func(*Redis)

func PoolSize(size int) Option {
	return func(r *Redis) {
		r.poolSize = size
	}
}

func MaxConnAttempts(attempts int) Option {
	return func(r *Redis) {
		r.connAttempts = attempts
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(r *Redis) {
		r.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(r *Redis) {
		r.maxRetryDelay = delay
	}
}

func PingTimeout(timeout time.Duration) Option {
	return func(r *Redis) {
		r.pingTimeout = timeout
	}
}

func (r *Redis) validate() error {
	if r.poolSize <= 0 {
		return errors.New("invalid poolSize: must be > 0")
	}

	if r.pingTimeout <= 0 {
		return errors.New("invalid pingTimeout: must be > 0")
	}

	return r.retryPolicy().Validate()
}

func (r *Redis) retryPolicy() storage.RetryPolicy {
	return storage.RetryPolicy{
		Attempts:  r.connAttempts,
		BaseDelay: r.baseRetryDelay,
		MaxDelay:  r.maxRetryDelay,
	}
}
