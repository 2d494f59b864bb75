//go:build integration

package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"phonebook/internal/config"
	"phonebook/internal/entity"
	"phonebook/internal/repository"
	"phonebook/pkg/logger"
	"phonebook/pkg/metric"
	"phonebook/pkg/storage/postgres"
	storageredis "phonebook/pkg/storage/redis"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// kvStoreSuite runs one contract against every KeyValueStore backend.
type kvStoreSuite struct {
	suite.Suite

	store   repository.KeyValueStore
	reset   func(ctx context.Context) error
	cleanup func()
}

func (s *kvStoreSuite) SetupTest() {
	s.Require().NoError(s.reset(context.Background()))
}

func (s *kvStoreSuite) TearDownSuite() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *kvStoreSuite) TestGetAbsent() {
	_, err := s.store.Get(context.Background(), "+10000000000")
	s.Require().ErrorIs(err, entity.ErrDataNotFound)
}

func (s *kvStoreSuite) TestSetThenGet() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "+1234567890", []byte(`{"street":"a"}`)))
	s.Require().NoError(s.store.Set(ctx, "+1234567890", []byte(`{"street":"b"}`)))

	got, err := s.store.Get(ctx, "+1234567890")
	s.Require().NoError(err)
	s.Require().JSONEq(`{"street":"b"}`, string(got))
}

func (s *kvStoreSuite) TestSetIfAbsent() {
	ctx := context.Background()

	ok, err := s.store.SetIfAbsent(ctx, "+1234567890", []byte(`{"v":1}`))
	s.Require().NoError(err)
	s.Require().True(ok)

	ok, err = s.store.SetIfAbsent(ctx, "+1234567890", []byte(`{"v":2}`))
	s.Require().NoError(err)
	s.Require().False(ok)

	got, err := s.store.Get(ctx, "+1234567890")
	s.Require().NoError(err)
	s.Require().JSONEq(`{"v":1}`, string(got))
}

func (s *kvStoreSuite) TestSetIfPresent() {
	ctx := context.Background()

	ok, err := s.store.SetIfPresent(ctx, "+1234567890", []byte(`{"v":1}`))
	s.Require().NoError(err)
	s.Require().False(ok)

	_, err = s.store.Get(ctx, "+1234567890")
	s.Require().ErrorIs(err, entity.ErrDataNotFound)

	s.Require().NoError(s.store.Set(ctx, "+1234567890", []byte(`{"v":1}`)))

	ok, err = s.store.SetIfPresent(ctx, "+1234567890", []byte(`{"v":2}`))
	s.Require().NoError(err)
	s.Require().True(ok)

	got, err := s.store.Get(ctx, "+1234567890")
	s.Require().NoError(err)
	s.Require().JSONEq(`{"v":2}`, string(got))
}

func (s *kvStoreSuite) TestDelete() {
	ctx := context.Background()

	n, err := s.store.Delete(ctx, "+1234567890")
	s.Require().NoError(err)
	s.Require().Zero(n)

	s.Require().NoError(s.store.Set(ctx, "+1234567890", []byte(`{"v":1}`)))

	n, err = s.store.Delete(ctx, "+1234567890")
	s.Require().NoError(err)
	s.Require().EqualValues(1, n)

	_, err = s.store.Get(ctx, "+1234567890")
	s.Require().ErrorIs(err, entity.ErrDataNotFound)
}

func (s *kvStoreSuite) TestConcurrentSetIfAbsent() {
	ctx := context.Background()

	const writers = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)

	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.store.SetIfAbsent(ctx, "+79123456789", []byte(`{"v":1}`))
			s.NoError(err)
			if ok {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Require().EqualValues(1, successes.Load())
}

func (s *kvStoreSuite) TestPing() {
	s.Require().NoError(s.store.Ping(context.Background()))
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("failed to get redis port: %v", err)
	}

	rdb, err := storageredis.NewRedis(&config.Redis{
		Host:         host,
		Port:         port.Port(),
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}

	suite.Run(t, &kvStoreSuite{
		store: repository.NewRedisStore(rdb.Client, "phonebook:", metric.NewFactory().Store()),
		reset: func(ctx context.Context) error {
			return rdb.Client.FlushAll(ctx).Err()
		},
		cleanup: func() {
			_ = rdb.Close()
		},
	})
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("phonebook"),
		tcpostgres.WithUsername("phonebook"),
		tcpostgres.WithPassword("phonebook"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get postgres port: %v", err)
	}

	db, err := postgres.NewPostgres(&config.Postgres{
		Host:     host,
		Port:     port.Port(),
		Name:     "phonebook",
		User:     "phonebook",
		Password: "phonebook",
		SSLMode:  "disable",
	}, logger.NewNop(), postgres.MaxPoolSize(20))
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	store := repository.NewPostgresStore(db, metric.NewFactory().Store())
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	// Applying twice must be harmless.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to re-apply migrations: %v", err)
	}

	suite.Run(t, &kvStoreSuite{
		store: store,
		reset: func(ctx context.Context) error {
			_, err := db.Pool.Exec(ctx, "TRUNCATE phonebook_records")
			return err
		},
		cleanup: func() {
			db.Close()
		},
	})
}
