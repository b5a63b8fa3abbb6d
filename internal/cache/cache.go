// file: internal/cache/cache.go
// version: 1.2.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
	seq       uint64
}

// Cache is a simple generic TTL cache safe for concurrent use.
// A zero TTL means entries never expire; a zero size bound means no bound.
type Cache[T any] struct {
	mu         sync.RWMutex
	items      map[string]entry[T]
	defaultTTL time.Duration
	maxEntries int
	seq        uint64
}

// New creates a cache with the given default TTL.
func New[T any](defaultTTL time.Duration) *Cache[T] {
	return NewBounded[T](defaultTTL, 0)
}

// NewBounded creates a cache that holds at most maxEntries values. When full,
// expired entries are dropped first, then the oldest insertion.
func NewBounded[T any](defaultTTL time.Duration, maxEntries int) *Cache[T] {
	return &Cache[T]{
		items:      make(map[string]entry[T]),
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
	}
}

// Get retrieves a value if it exists and hasn't expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || e.expired(time.Now()) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a specific TTL.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; !exists && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.evictLocked()
	}
	c.seq++
	c.items[key] = entry[T]{value: value, expiresAt: expiresAt, seq: c.seq}
}

// evictLocked makes room for one entry. Callers hold c.mu.
func (c *Cache[T]) evictLocked() {
	now := time.Now()
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
		}
	}
	if len(c.items) < c.maxEntries {
		return
	}
	var oldest string
	var oldestSeq uint64
	found := false
	for k, e := range c.items {
		if !found || e.seq < oldestSeq {
			oldest, oldestSeq, found = k, e.seq, true
		}
	}
	delete(c.items, oldest)
}

// GetOrCompute returns the cached value for key, building and storing it on a miss.
// Concurrent misses may both run build; the last writer wins.
func (c *Cache[T]) GetOrCompute(key string, build func() T) T {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := build()
	c.Set(key, v)
	return v
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Invalidate removes a single key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// InvalidateAll removes all entries.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	c.items = make(map[string]entry[T])
	c.mu.Unlock()
}

func (e entry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
