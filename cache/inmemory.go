package cache

import (
	"context"
	"time"

	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 1 * time.Hour

// InMemory implements Cache using github.com/patrickmn/go-cache.
type InMemory struct {
	cache *goCache.Cache
}

// NewInMemory creates a process-local cache. ttl <= 0 uses DefaultExpiration.
func NewInMemory(ttl time.Duration) *InMemory {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &InMemory{cache: goCache.New(ttl, DefaultCleanupInterval)}
}

// Get retrieves a value from the cache
func (c *InMemory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// Set adds a value to the cache
func (c *InMemory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

// Delete removes a key from the cache
func (c *InMemory) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

// Flush removes all items from the cache
func (c *InMemory) Flush(_ context.Context) {
	c.cache.Flush()
}

// Len is the number of items, including expired ones not yet cleaned up.
func (c *InMemory) Len() int {
	return c.cache.ItemCount()
}
