package postgres

import (
	"errors"
	"time"

	"phonebook/pkg/storage"
)

type Option func(*Postgres)

func MaxPoolSize(size int32) Option {
	return func(p *Postgres) {
		p.maxPoolSize = size
	}
}

func MaxConnAttempts(attempts int) Option {
	return func(p *Postgres) {
		p.connAttempts = attempts
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(p *Postgres) {
		p.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(p *Postgres) {
		p.maxRetryDelay = delay
	}
}

func (p *Postgres) validate() error {
	if p.maxPoolSize <= 0 {
		return errors.New("invalid maxPoolSize: must be > 0")
	}

	return p.retryPolicy().Validate()
}

func (p *Postgres) retryPolicy() storage.RetryPolicy {
	return storage.RetryPolicy{
		Attempts:  p.connAttempts,
		BaseDelay: p.baseRetryDelay,
		MaxDelay:  p.maxRetryDelay,
	}
}
