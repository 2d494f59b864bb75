package repository

import (
	"context"
	"errors"
	"time"

	"phonebook/internal/entity"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock_repository

// KeyValueStore is the byte-level collaborator behind AddressRepository.
// The conditional writes are single atomic operations on the backend, so
// concurrent writers to one key cannot both succeed.
type KeyValueStore interface {
	// Get returns entity.ErrDataNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set is the unconditional write. AddressRepository never calls it;
	// it exists for seeding and repairing records outside the request path.
	Set(ctx context.Context, key string, value []byte) error
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	SetIfPresent(ctx context.Context, key string, value []byte) (bool, error)
	// Delete reports the number of removed entries.
	Delete(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
}

const (
	_opGet          = "get"
	_opSet          = "set"
	_opSetIfAbsent  = "set_if_absent"
	_opSetIfPresent = "set_if_present"
	_opDelete       = "delete"
)

type storeObserver interface {
	ObserveDuration(backend, operation string, duration time.Duration)
	IncrementFailures(backend, operation string)
}

func observe(m storeObserver, backend, operation string, start time.Time, err error) {
	m.ObserveDuration(backend, operation, time.Since(start))
	if err != nil && !errors.Is(err, entity.ErrDataNotFound) {
		m.IncrementFailures(backend, operation)
	}
}
