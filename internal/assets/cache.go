package assets

import (
	"sync"
)

// Cache is a simple in-memory cache for loaded assets.
type Cache[V any] struct {
	data map[string]V
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{
		data: make(map[string]V),
	}
}

// Get retrieves an item from cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Delete removes an item and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	delete(c.data, key)
	return ok
}

// Len returns the number of cached items.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]V)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache[V]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
