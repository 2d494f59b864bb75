package service

import (
	"time"

	"phonebook/internal/entity"
)

const _defaultCacheTTL = 30 * time.Second

type Option func(*PhonebookService)

func CacheTTL(ttl time.Duration) Option {
	return func(s *PhonebookService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func AddressLimits(limits entity.AddressLimits) Option {
	return func(s *PhonebookService) {
		s.limits = limits
	}
}

func OperationTimeout(timeout time.Duration) Option {
	return func(s *PhonebookService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}
