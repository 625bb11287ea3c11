package memcache

import (
	"sync"
	"time"
)

// MemCache is a small in-process cache with a TTL and a capacity bound.
// When the capacity is exceeded the oldest-inserted entry is evicted.
// The clock is injectable so tests can advance time explicitly.
type MemCache[T any] struct {
	mu       sync.Mutex
	entries  map[string]entry[T]
	order    []string
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func New[T any](capacity int, ttl time.Duration) *MemCache[T] {
	if capacity <= 0 {
		capacity = 1
	}

	return &MemCache[T]{
		entries:  make(map[string]entry[T], capacity),
		order:    make([]string, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (c *MemCache[T]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *MemCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T

	item, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if c.now().After(item.expiresAt) {
		c.removeLocked(key)
		return zero, false
	}

	return item.value, true
}

func (c *MemCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.capacity {
			c.removeLocked(c.order[0])
		}

		c.order = append(c.order, key)
	}

	c.entries[key] = entry[T]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *MemCache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

func (c *MemCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemCache[T]) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}

	delete(c.entries, key)

	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
