package app

import (
	"context"
	"errors"
	"fmt"

	"phonebook/internal/config"
	"phonebook/internal/entity"
	"phonebook/internal/repository"
	"phonebook/internal/service"
	httpt "phonebook/internal/transport/http"
	kafkat "phonebook/internal/transport/kafka"
	"phonebook/pkg/cache"
	"phonebook/pkg/kafka"
	"phonebook/pkg/kafka/dlq"
	"phonebook/pkg/logger"
	"phonebook/pkg/metric"
	"phonebook/pkg/storage/postgres"
	storageredis "phonebook/pkg/storage/redis"

	"golang.org/x/sync/errgroup"
)

const _addressCacheName = "address"

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	// abort stops whatever already runs in eg before an init error is returned.
	abort := func(err error) error {
		cancel()
		if waitErr := eg.Wait(); waitErr != nil && !errors.Is(waitErr, context.Canceled) {
			log.Errorw("component stopped with error during aborted startup", "error", waitErr)
		}
		return err
	}

	metrics, err := initMetrics(ctx, eg, &cfg.Metrics, log)
	if err != nil {
		return abort(err)
	}

	store, closeStore, err := initStore(ctx, cfg, log, metrics)
	if err != nil {
		return abort(err)
	}
	defer closeStore()

	addressCache, err := initCache(&cfg.Cache, log, metrics)
	if err != nil {
		return abort(err)
	}
	defer addressCache.StopCleanup()

	phonebookService, err := initPhonebookService(cfg, store, addressCache, log, metrics)
	if err != nil {
		return abort(err)
	}

	if err = initHTTPServer(ctx, eg, cfg, phonebookService, log, metrics); err != nil {
		return abort(err)
	}

	if cfg.Kafka.Enabled {
		if err = initKafkaComponents(ctx, eg, cfg, phonebookService, log, metrics); err != nil {
			return abort(err)
		}
	}

	return waitForShutdown(eg)
}

func initMetrics(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) (metric.Factory, error) {
	metrics := metric.NewFactory()

	metricsServer, err := httpt.NewHTTPServer(
		metrics.Handler(),
		&config.HTTP{
			Host:              cfg.Host,
			Port:              cfg.Port,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.WriteTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ShutdownTimeout:   cfg.WriteTimeout,
		},
		log.With("component", "metrics server"),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initMetrics: %w", err)
	}

	eg.Go(func() error {
		return metricsServer.Start(ctx)
	})

	return metrics, nil
}

// initStore connects the configured backend. The returned func releases it.
func initStore(
	ctx context.Context,
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) (repository.KeyValueStore, func(), error) {
	const op = "app.initStore"

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.NewPostgres(
			&cfg.Postgres,
			log.With("component", "database"),
			postgres.MaxPoolSize(cfg.Postgres.PoolMax),
			postgres.MaxConnAttempts(cfg.Postgres.ConnAttempts),
			postgres.BaseRetryDelay(cfg.Postgres.BaseRetryDelay),
			postgres.MaxRetryDelay(cfg.Postgres.MaxRetryDelay),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		store := repository.NewPostgresStore(db, metrics.Store())
		if err = store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		return store, db.Close, nil
	default:
		client, err := storageredis.NewRedis(
			&cfg.Redis,
			log.With("component", "redis"),
			storageredis.PoolSize(cfg.Redis.PoolSize),
			storageredis.MaxConnAttempts(cfg.Redis.ConnAttempts),
			storageredis.BaseRetryDelay(cfg.Redis.BaseRetryDelay),
			storageredis.MaxRetryDelay(cfg.Redis.MaxRetryDelay),
			storageredis.PingTimeout(cfg.Redis.DialTimeout),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		closeClient := func() {
			if closeErr := client.Close(); closeErr != nil {
				log.Errorw("failed to close redis client", "error", closeErr)
			}
		}

		return repository.NewRedisStore(client.Client, cfg.Redis.KeyPrefix, metrics.Store()), closeClient, nil
	}
}

func initCache(
	cfg *config.Cache,
	log logger.Logger,
	metrics metric.Factory,
) (cache.Cache[string, entity.Address], error) {
	addressCache, err := cache.NewLRUCache[string, entity.Address](
		_addressCacheName,
		cfg.Capacity,
		log.With("component", "cache"),
		metrics.Cache(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCache: %w", err)
	}
	addressCache.StartCleanup(cfg.CleanupInterval)
	return addressCache, nil
}

func initPhonebookService(
	cfg *config.Config,
	store repository.KeyValueStore,
	addressCache cache.Cache[string, entity.Address],
	log logger.Logger,
	metrics metric.Factory,
) (*service.PhonebookService, error) {
	limits, err := entity.AddressLimitsByName(cfg.Address.Limits)
	if err != nil {
		return nil, fmt.Errorf("app.initPhonebookService: %w", err)
	}

	addressRepo := repository.NewAddressRepository(store, log.With("component", "address repository"))

	return service.NewPhonebookService(
		addressRepo,
		log.With("component", "phonebook service"),
		addressCache,
		metrics.Store(),
		service.CacheTTL(cfg.Cache.TTL),
		service.AddressLimits(limits),
		service.OperationTimeout(cfg.Storage.OperationLimit),
	), nil
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	phonebookService *service.PhonebookService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	handler := httpt.NewPhonebookHandler(
		phonebookService,
		&cfg.App,
		log.With("component", "http handler"),
		metrics.HTTP(),
	)

	httpServer, err := httpt.NewHTTPServer(
		handler.Engine(),
		&cfg.HTTP,
		log.With("component", "http server"),
	)
	if err != nil {
		return fmt.Errorf("app.initHTTPServer: %w", err)
	}

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
	return nil
}

func initKafkaComponents(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	phonebookService *service.PhonebookService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	const op = "app.initKafkaComponents"

	commandReader, err := kafka.NewReader(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID,
		log.With("component", "kafka reader"))
	if err != nil {
		return fmt.Errorf("%s: kafka reader creation: %w", op, err)
	}

	dlqReader, err := kafka.NewReader(ctx, cfg.DLQ.Brokers, cfg.DLQ.Topic, cfg.DLQ.GroupID,
		log.With("component", "dlq reader"))
	if err != nil {
		return fmt.Errorf("%s: dlq reader creation: %w", op, err)
	}

	deadLetterQueue, err := dlq.NewDLQ(
		cfg.DLQ,
		log.With("component", "dlq"),
		metrics.DLQ(),
		dlq.MaxAttemptsCount(cfg.DLQ.MaxRetryCount),
		dlq.BaseRetryDelay(cfg.DLQ.RetryDelay),
		dlq.MaxRetryDelay(cfg.DLQ.MaxRetryDelay),
	)
	if err != nil {
		return fmt.Errorf("%s: dead letter queue creation: %w", op, err)
	}

	commandConsumer := kafkat.NewCommandConsumer(
		commandReader,
		deadLetterQueue,
		phonebookService,
		metrics.Kafka(),
		log.With("component", "command consumer"),
	)
	dlqProcessor := kafkat.NewDLQProcessor(
		dlqReader,
		deadLetterQueue,
		phonebookService,
		metrics.Kafka(),
		cfg.DLQ.MaxRetryCount,
		cfg.DLQ.RetryDelay,
		log.With("component", "dlq processor"),
	)

	eg.Go(func() error {
		return commandConsumer.Start(ctx)
	})
	eg.Go(func() error {
		return dlqProcessor.Start(ctx)
	})
	eg.Go(func() error {
		<-ctx.Done()
		return deadLetterQueue.Close()
	})

	return nil
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}
