// Package cache provides the short-lived in-memory state store used for
// OAuth state parameters, pending verification tokens and PageSpeed
// response caching.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a thread-safe in-memory TTL cache.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache. defaultTTL applies when Set is
// called with a non-positive TTL; expired entries are purged every
// cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value in the cache with the given TTL.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all values from the cache.
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
