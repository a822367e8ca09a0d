// Package cache provides a small in-memory TTL cache used to avoid
// re-fetching slow-moving upstream data (tag lists, comic details,
// statistics) within a session.
package cache

import (
	"sync"
	"time"

	"github.com/wepcomic/wepcomic-term/internal/logger"
)

// Cache stores values with a per-entry TTL.
type Cache[K comparable, V any] interface {
	// Set stores a value with the specified TTL. A non-positive TTL means
	// the entry never expires.
	Set(key K, value V, ttl time.Duration)
	// Get retrieves a value and reports whether it was found and fresh.
	Get(key K) (V, bool)
	// Delete removes a value.
	Delete(key K)
	// Clear removes all values.
	Clear()
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type memoryCache[K comparable, V any] struct {
	items map[K]entry[V]
	mu    sync.RWMutex
	log   *logger.Logger
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache[K comparable, V any](log *logger.Logger) Cache[K, V] {
	return &memoryCache[K, V]{
		items: make(map[K]entry[V]),
		log:   log,
	}
}

func (c *memoryCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: expiresAt}

	c.log.Debug("Item added to cache", map[string]interface{}{
		"key":        key,
		"cache_size": len(c.items),
	})
}

func (c *memoryCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found {
		var zero V
		return zero, false
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		var zero V
		return zero, false
	}
	return item.value, true
}

func (c *memoryCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *memoryCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}
