package cache

import (
	"fmt"
	"sync"
	"time"

	"phonebook/pkg/logger"
	"phonebook/pkg/metric"
)

const (
	_reasonCapacity = "capacity"
	_reasonExpired  = "expired"
	_reasonDeleted  = "deleted"
)

var _ Cache[string, struct{}] = (*LRUCache[string, struct{}])(nil)

// LRUCache is a bounded, TTL-aware cache. Entries live on an intrusive list
// ordered from most to least recently used. All metrics are labelled with
// the name given at construction.
type LRUCache[K comparable, V any] struct {
	name     string
	capacity int
	log      logger.Logger
	metrics  metric.Cache

	mu        sync.Mutex
	items     map[K]*node[K, V]
	head      *node[K, V]
	tail      *node[K, V]
	stop      chan struct{}
	onEvicted func(key K, value V)
}

type node[K comparable, V any] struct {
	key        K
	value      V
	expires    time.Time
	prev, next *node[K, V]
}

func (n *node[K, V]) expiredAt(now time.Time) bool {
	return !n.expires.IsZero() && now.After(n.expires)
}

func NewLRUCache[K comparable, V any](
	name string,
	capacity int,
	log logger.Logger,
	metrics metric.Cache,
) (*LRUCache[K, V], error) {
	const op = "cache.NewLRUCache"

	if name == "" {
		return nil, fmt.Errorf("%s: name is required", op)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%s: capacity must be positive, got %d", op, capacity)
	}

	return &LRUCache[K, V]{
		name:     name,
		capacity: capacity,
		log:      log,
		metrics:  metrics,
		items:    make(map[K]*node[K, V], capacity),
	}, nil
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok || n.expiredAt(time.Now()) {
		if ok {
			c.evict(n, _reasonExpired)
		}
		c.metrics.Miss(c.name)
		var zero V
		return zero, false
	}

	c.moveToFront(n)
	c.metrics.Hit(c.name)
	return n.value, true
}

// Put stores value under key. A ttl <= 0 means the entry never expires.
func (c *LRUCache[K, V]) Put(key K, value V, ttl time.Duration) {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.value = value
		n.expires = expires
		c.moveToFront(n)
		return
	}

	if len(c.items) >= c.capacity && c.tail != nil {
		c.evict(c.tail, _reasonCapacity)
	}

	n := &node[K, V]{key: key, value: value, expires: expires}
	c.pushFront(n)
	c.items[key] = n
	c.metrics.Size(c.name, len(c.items))
}

// Delete drops key from the cache and reports whether it was present.
func (c *LRUCache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		return false
	}

	c.evict(n, _reasonDeleted)
	return true
}

func (c *LRUCache[K, V]) SetOnEvicted(onEvicted func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvicted = onEvicted
}

// StartCleanup sweeps expired entries every interval until StopCleanup. A
// second call replaces the running sweeper.
func (c *LRUCache[K, V]) StartCleanup(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
	}
	c.stop = make(chan struct{})
	go c.runCleanup(interval, c.stop)
}

func (c *LRUCache[K, V]) StopCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *LRUCache[K, V]) runCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-stop:
			return
		}
	}
}

func (c *LRUCache[K, V]) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for n := c.tail; n != nil; {
		prev := n.prev
		if n.expiredAt(now) {
			c.evict(n, _reasonExpired)
			removed++
		}
		n = prev
	}

	if removed > 0 {
		c.log.Debugw("cache cleanup completed",
			"cache", c.name,
			"removed", removed,
			"remaining", len(c.items),
		)
	}
}

// evict unlinks n and reports the removal. Callers hold c.mu.
func (c *LRUCache[K, V]) evict(n *node[K, V], reason string) {
	c.unlink(n)
	delete(c.items, n.key)

	if c.onEvicted != nil {
		c.onEvicted(n.key, n.value)
	}
	c.metrics.Eviction(c.name, reason)
	c.metrics.Size(c.name, len(c.items))
}

func (c *LRUCache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRUCache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (c *LRUCache[K, V]) moveToFront(n *node[K, V]) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}
