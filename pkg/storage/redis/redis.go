package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"phonebook/internal/config"
	"phonebook/pkg/logger"
	"phonebook/pkg/storage"

	"github.com/redis/go-redis/v9"
)

const (
	_defaultPoolSize       = 20
	_defaultConnAttempts   = 5
	_defaultBaseRetryDelay = 100 * time.Millisecond
	_defaultMaxRetryDelay  = 5 * time.Second
	_defaultPingTimeout    = 3 * time.Second

	_backend = "redis"
)

// NewUniversal is swapped out in tests.
var NewUniversal = func(opt *redis.UniversalOptions) redis.UniversalClient {
	return redis.NewUniversalClient(opt)
}

type Redis struct {
	Client redis.UniversalClient

	poolSize       int
	connAttempts   int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
	pingTimeout    time.Duration
}

func NewRedis(cfg *config.Redis, log logger.Logger, opts ...Option) (*Redis, error) {
	const op = "storage.redis.NewRedis"

	r := &Redis{
		poolSize:       _defaultPoolSize,
		connAttempts:   _defaultConnAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
		pingTimeout:    _defaultPingTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("%s: validation: %w", op, err)
	}

	client := NewUniversal(&redis.UniversalOptions{
		Addrs:        []string{net.JoinHostPort(cfg.Host, cfg.Port)},
		DB:           cfg.DB,
		Password:     cfg.Password,
		PoolSize:     r.poolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	err := storage.Connect(context.Background(), log, _backend, r.retryPolicy(),
		func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, r.pingTimeout)
			defer cancel()
			return client.Ping(pingCtx).Err()
		})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	r.Client = client
	return r, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("storage.redis.Ping: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.Client == nil {
		return nil
	}
	if err := r.Client.Close(); err != nil {
		return fmt.Errorf("storage.redis.Close: %w", err)
	}
	return nil
}
