package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"phonebook/internal/entity"
	"phonebook/pkg/cache"
	"phonebook/pkg/logger"
	"phonebook/pkg/metric"
)

//go:generate mockgen -source=service.go -destination=../repository/mock/address.go -package=mock_repository

const (
	_defaultContextTimeout = 500 * time.Millisecond
	_slowOperation         = 200 * time.Millisecond

	_opCreate = "create"
	_opRead   = "read"
	_opUpdate = "update"
	_opDelete = "delete"

	_outcomeSuccess        = "success"
	_outcomeInvalidPhone   = "invalid_phone"
	_outcomeInvalidAddress = "invalid_address"
	_outcomeConflict       = "conflict"
	_outcomeNotFound       = "not_found"
	_outcomeError          = "error"
)

type (
	AddressRepository interface {
		Read(ctx context.Context, phone string) (*entity.Address, error)
		Create(ctx context.Context, phone string, addr *entity.Address) (bool, error)
		Update(ctx context.Context, phone string, addr *entity.Address) (bool, error)
		Delete(ctx context.Context, phone string) (bool, error)
		Ping(ctx context.Context) error
	}

	PhonebookService struct {
		repo     AddressRepository
		logger   logger.Logger
		cache    cache.Cache[string, entity.Address]
		metrics  metric.Store
		cacheTTL time.Duration
		limits   entity.AddressLimits
		timeout  time.Duration

		// fillMu orders read-side cache fills against write-side
		// invalidation. generation moves on every completed write, and a
		// read that overlapped one does not fill the cache.
		fillMu     sync.Mutex
		generation uint64
	}
)

func NewPhonebookService(
	repo AddressRepository,
	logger logger.Logger,
	cache cache.Cache[string, entity.Address],
	metrics metric.Store,
	opts ...Option,
) *PhonebookService {
	cache.SetOnEvicted(func(key string, _ entity.Address) {
		logger.Debugw("cache eviction", "phone", key)
	})

	s := &PhonebookService{
		repo:     repo,
		logger:   logger,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: _defaultCacheTTL,
		limits:   entity.WideAddressLimits,
		timeout:  _defaultContextTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *PhonebookService) CreateAddress(
	ctx context.Context,
	rawPhone string,
	fields entity.AddressFields,
) (*entity.PhoneAddress, error) {
	const op = "service.CreateAddress"
	log := s.logger.Ctx(ctx)
	defer s.trackSlow(ctx, op, time.Now())

	phone, addr, err := s.prepareWrite(rawPhone, fields)
	if err != nil {
		s.reject(ctx, op, _opCreate, rawPhone, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		return s.repo.Create(ctx, phone, addr)
	})
	if err != nil {
		s.fail(ctx, op, _opCreate, phone, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		s.reject(ctx, op, _opCreate, phone, entity.ErrPhoneAlreadyExists)
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPhoneAlreadyExists)
	}

	s.invalidate(phone)
	s.metrics.Outcome(_opCreate, _outcomeSuccess)

	log.LogAttrs(ctx, logger.InfoLevel, "address created",
		logger.String("op", op),
		logger.String("phone", phone),
	)

	return &entity.PhoneAddress{Phone: phone, Address: addr}, nil
}

func (s *PhonebookService) GetAddress(ctx context.Context, rawPhone string) (*entity.PhoneAddress, error) {
	const op = "service.GetAddress"
	log := s.logger.Ctx(ctx)
	defer s.trackSlow(ctx, op, time.Now())

	phone, err := canonicalPhone(rawPhone)
	if err != nil {
		s.reject(ctx, op, _opRead, rawPhone, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cached, found := s.cache.Get(phone); found {
		s.metrics.Outcome(_opRead, _outcomeSuccess)
		log.LogAttrs(ctx, logger.DebugLevel, "address served from cache",
			logger.String("op", op),
			logger.String("phone", phone),
		)
		return &entity.PhoneAddress{Phone: phone, Address: &cached}, nil
	}

	generation := s.currentGeneration()

	var addr *entity.Address
	_, err = s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		var readErr error
		addr, readErr = s.repo.Read(ctx, phone)
		return addr != nil, readErr
	})
	if errors.Is(err, entity.ErrDataNotFound) {
		s.reject(ctx, op, _opRead, phone, entity.ErrPhoneNotFound)
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPhoneNotFound)
	}
	if err != nil {
		s.fail(ctx, op, _opRead, phone, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.fill(phone, addr, generation)
	s.metrics.Outcome(_opRead, _outcomeSuccess)

	log.LogAttrs(ctx, logger.DebugLevel, "address served from store",
		logger.String("op", op),
		logger.String("phone", phone),
	)

	return &entity.PhoneAddress{Phone: phone, Address: addr}, nil
}

func (s *PhonebookService) UpdateAddress(
	ctx context.Context,
	rawPhone string,
	fields entity.AddressFields,
) (*entity.PhoneAddress, error) {
	const op = "service.UpdateAddress"
	log := s.logger.Ctx(ctx)
	defer s.trackSlow(ctx, op, time.Now())

	phone, addr, err := s.prepareWrite(rawPhone, fields)
	if err != nil {
		s.reject(ctx, op, _opUpdate, rawPhone, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		return s.repo.Update(ctx, phone, addr)
	})
	// A failed write may still have landed.
	s.invalidate(phone)
	if err != nil {
		s.fail(ctx, op, _opUpdate, phone, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !updated {
		s.reject(ctx, op, _opUpdate, phone, entity.ErrPhoneNotFound)
		return nil, fmt.Errorf("%s: %w", op, entity.ErrPhoneNotFound)
	}

	s.metrics.Outcome(_opUpdate, _outcomeSuccess)

	log.LogAttrs(ctx, logger.InfoLevel, "address updated",
		logger.String("op", op),
		logger.String("phone", phone),
	)

	return &entity.PhoneAddress{Phone: phone, Address: addr}, nil
}

func (s *PhonebookService) DeleteAddress(ctx context.Context, rawPhone string) error {
	const op = "service.DeleteAddress"
	log := s.logger.Ctx(ctx)
	defer s.trackSlow(ctx, op, time.Now())

	phone, err := canonicalPhone(rawPhone)
	if err != nil {
		s.reject(ctx, op, _opDelete, rawPhone, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	removed, err := s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		return s.repo.Delete(ctx, phone)
	})
	s.invalidate(phone)
	if err != nil {
		s.fail(ctx, op, _opDelete, phone, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	if !removed {
		s.reject(ctx, op, _opDelete, phone, entity.ErrPhoneNotFound)
		return fmt.Errorf("%s: %w", op, entity.ErrPhoneNotFound)
	}

	s.metrics.Outcome(_opDelete, _outcomeSuccess)

	log.LogAttrs(ctx, logger.InfoLevel, "address deleted",
		logger.String("op", op),
		logger.String("phone", phone),
	)

	return nil
}

// Ping checks that the backing store answers within the operation timeout.
func (s *PhonebookService) Ping(ctx context.Context) error {
	_, err := s.withTimeout(ctx, func(ctx context.Context) (bool, error) {
		return true, s.repo.Ping(ctx)
	})
	if err != nil {
		return fmt.Errorf("service.Ping: %w", err)
	}
	return nil
}

func (s *PhonebookService) prepareWrite(
	rawPhone string,
	fields entity.AddressFields,
) (string, *entity.Address, error) {
	phone, err := canonicalPhone(rawPhone)
	if err != nil {
		return "", nil, err
	}

	addr, err := entity.NewAddress(fields, s.limits)
	if err != nil {
		return "", nil, err
	}

	return phone, addr, nil
}

func canonicalPhone(raw string) (string, error) {
	phone, ok := entity.NormalizePhone(raw)
	if !ok {
		return "", &entity.PhoneFormatError{Raw: raw}
	}
	return phone, nil
}

func (s *PhonebookService) currentGeneration() uint64 {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	return s.generation
}

// fill caches addr unless a write completed after generation was taken.
func (s *PhonebookService) fill(phone string, addr *entity.Address, generation uint64) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	if s.generation != generation {
		return
	}
	s.cache.Put(phone, *addr, s.cacheTTL)
}

// invalidate must run after the store write returns.
func (s *PhonebookService) invalidate(phone string) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	s.generation++
	s.cache.Delete(phone)
}

func (s *PhonebookService) withTimeout(
	ctx context.Context,
	fn func(ctx context.Context) (bool, error),
) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return fn(ctx)
}

func (s *PhonebookService) reject(ctx context.Context, op, operation, phone string, err error) {
	s.metrics.Outcome(operation, outcomeOf(err))
	s.logger.Ctx(ctx).LogAttrs(ctx, logger.InfoLevel, "request rejected",
		logger.String("op", op),
		logger.String("phone", phone),
		logger.String("reason", err.Error()),
	)
}

func (s *PhonebookService) fail(ctx context.Context, op, operation, phone string, err error) {
	s.metrics.Outcome(operation, _outcomeError)
	s.logger.Ctx(ctx).LogAttrs(ctx, logger.ErrorLevel, "store operation failed",
		logger.String("op", op),
		logger.String("phone", phone),
		logger.Err(err),
	)
}

func (s *PhonebookService) trackSlow(ctx context.Context, op string, start time.Time) {
	if duration := time.Since(start); duration > _slowOperation {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.WarnLevel, "slow service operation",
			logger.String("op", op),
			logger.Duration("duration", duration),
		)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidPhoneFormat):
		return _outcomeInvalidPhone
	case errors.Is(err, entity.ErrInvalidAddressData):
		return _outcomeInvalidAddress
	case errors.Is(err, entity.ErrPhoneAlreadyExists):
		return _outcomeConflict
	case errors.Is(err, entity.ErrPhoneNotFound):
		return _outcomeNotFound
	default:
		return _outcomeError
	}
}
