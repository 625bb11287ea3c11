package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_MemCache_SetAndGet(t *testing.T) {
	cache := New[string](4, time.Minute)

	cache.Set("a", "alpha")

	value, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", value)

	_, ok = cache.Get("missing")
	assert.False(t, ok)
}

func Test_MemCache_EntriesExpireAfterTTL(t *testing.T) {
	cache := New[int](4, time.Minute)

	current := time.Now()
	cache.SetClock(func() time.Time { return current })

	cache.Set("key", 7)

	value, ok := cache.Get("key")
	assert.True(t, ok)
	assert.Equal(t, 7, value)

	current = current.Add(2 * time.Minute)

	_, ok = cache.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func Test_MemCache_EvictsOldestWhenFull(t *testing.T) {
	cache := New[int](2, time.Minute)

	cache.Set("first", 1)
	cache.Set("second", 2)
	cache.Set("third", 3)

	_, ok := cache.Get("first")
	assert.False(t, ok)

	_, ok = cache.Get("second")
	assert.True(t, ok)

	_, ok = cache.Get("third")
	assert.True(t, ok)

	assert.Equal(t, 2, cache.Len())
}

func Test_MemCache_OverwriteDoesNotGrow(t *testing.T) {
	cache := New[int](2, time.Minute)

	cache.Set("key", 1)
	cache.Set("key", 2)

	value, ok := cache.Get("key")
	assert.True(t, ok)
	assert.Equal(t, 2, value)
	assert.Equal(t, 1, cache.Len())
}

func Test_MemCache_Invalidate(t *testing.T) {
	cache := New[int](2, time.Minute)

	cache.Set("key", 1)
	cache.Invalidate("key")

	_, ok := cache.Get("key")
	assert.False(t, ok)

	// invalidating an absent key is a no-op
	cache.Invalidate("missing")
}
