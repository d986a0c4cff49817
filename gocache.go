package restclient

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// GoCache is a Cache backend built on patrickmn/go-cache. Unlike
// MemoryCache it supports per-cache expiration with a background janitor,
// which suits long-lived clients polling volatile endpoints.
type GoCache struct {
	cache *gocache.Cache
}

// NewGoCache creates a go-cache backed cache. A zero or negative
// defaultExpiration disables expiration entirely, matching the contract of
// the default cache. cleanupInterval controls the janitor; zero disables
// it.
func NewGoCache(defaultExpiration, cleanupInterval time.Duration) *GoCache {
	if defaultExpiration <= 0 {
		defaultExpiration = gocache.NoExpiration
	}
	return &GoCache{
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves a cached body.
func (c *GoCache) Get(key string) (string, bool) {
	value, found := c.cache.Get(key)
	if !found {
		return "", false
	}

	body, ok := value.(string)
	if !ok {
		return "", false
	}
	return body, true
}

// Set stores a body under key using the default expiration.
func (c *GoCache) Set(key string, body string) {
	c.cache.SetDefault(key, body)
}

// Delete removes a single entry.
func (c *GoCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all entries.
func (c *GoCache) Clear() {
	c.cache.Flush()
}
