package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"phonebook/internal/entity"
	"phonebook/pkg/metric"

	"github.com/redis/go-redis/v9"
)

const _backendRedis = "redis"

var _ KeyValueStore = (*RedisStore)(nil)

type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	metrics metric.Store
}

func NewRedisStore(client redis.UniversalClient, prefix string, metrics metric.Store) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		metrics: metrics,
	}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	const op = "repository.redis.Get"
	defer func(start time.Time) { observe(s.metrics, _backendRedis, _opGet, start, err) }(time.Now())

	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrDataNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) (err error) {
	const op = "repository.redis.Set"
	defer func(start time.Time) { observe(s.metrics, _backendRedis, _opSet, start, err) }(time.Now())

	if err = s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, key string, value []byte) (_ bool, err error) {
	const op = "repository.redis.SetIfAbsent"
	defer func(start time.Time) { observe(s.metrics, _backendRedis, _opSetIfAbsent, start, err) }(time.Now())

	ok, err := s.client.SetNX(ctx, s.key(key), value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

func (s *RedisStore) SetIfPresent(ctx context.Context, key string, value []byte) (_ bool, err error) {
	const op = "repository.redis.SetIfPresent"
	defer func(start time.Time) { observe(s.metrics, _backendRedis, _opSetIfPresent, start, err) }(time.Now())

	ok, err := s.client.SetXX(ctx, s.key(key), value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) (_ int64, err error) {
	const op = "repository.redis.Delete"
	defer func(start time.Time) { observe(s.metrics, _backendRedis, _opDelete, start, err) }(time.Now())

	n, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("repository.redis.Ping: %w", err)
	}
	return nil
}
