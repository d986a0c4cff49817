package restclient

import (
	"sort"
	"strings"
	"sync"
)

// Cache is the interface for response body caching. Values are raw
// response bodies. Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, body string)
	Delete(key string)
	Clear()
}

// CacheKeyFunc derives the cache key for a request from its URL and extra
// headers.
type CacheKeyFunc func(url string, headers map[string]string) string

// DefaultCacheKeyFunc returns the URL verbatim for requests without extra
// headers, and the URL concatenated with a canonical sorted rendering of
// the header map otherwise. Sorting keeps the key stable across calls
// regardless of map iteration order.
func DefaultCacheKeyFunc(url string, headers map[string]string) string {
	if len(headers) == 0 {
		return url
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(url)
	for _, k := range keys {
		sb.WriteByte('|')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(headers[k])
	}
	return sb.String()
}

// MemoryCache is a plain in-memory cache. Entries live until Clear or
// Delete; there is no expiration.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: make(map[string]string),
	}
}

// Get retrieves a cached body.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	body, exists := c.store[key]
	return body, exists
}

// Set stores a body under key.
func (c *MemoryCache) Set(key string, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = body
}

// Delete removes a single entry.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.store, key)
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]string)
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.store)
}
