package cache

import (
	"time"
)

// Cache is the subset of LRUCache the service layer relies on.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V, ttl time.Duration)
	Delete(key K) bool
	StartCleanup(interval time.Duration)
	StopCleanup()
	SetOnEvicted(onEvicted func(key K, value V))
}
