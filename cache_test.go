package restclient

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	cache := NewMemoryCache()

	if _, found := cache.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	cache.Set("http://example.com/a", "body-a")

	body, found := cache.Get("http://example.com/a")
	if !found {
		t.Fatal("Expected hit for stored key")
	}
	if body != "body-a" {
		t.Errorf("Expected 'body-a', got '%s'", body)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("k", "first")
	cache.Set("k", "second")

	body, _ := cache.Get("k")
	if body != "second" {
		t.Errorf("Expected last write to win, got '%s'", body)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("a", "1")
	cache.Set("b", "2")
	cache.Clear()

	if _, found := cache.Get("a"); found {
		t.Error("Expected miss after Clear")
	}
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d entries", cache.Len())
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("a", "1")
	cache.Set("b", "2")
	cache.Delete("a")

	if _, found := cache.Get("a"); found {
		t.Error("Expected deleted key to miss")
	}
	if _, found := cache.Get("b"); !found {
		t.Error("Expected untouched key to remain")
	}
}

func TestMemoryCacheConcurrent(t *testing.T) {
	cache := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "key-" + strings.Repeat("x", n%5)
			cache.Set(key, "v")
			cache.Get(key)
		}(i)
	}
	wg.Wait()
}

func TestDefaultCacheKeyFuncURLOnly(t *testing.T) {
	key := DefaultCacheKeyFunc("http://example.com/path", nil)

	if key != "http://example.com/path" {
		t.Errorf("Expected URL verbatim, got '%s'", key)
	}
}

func TestDefaultCacheKeyFuncWithHeaders(t *testing.T) {
	headers := map[string]string{"Accept": "application/json", "X-Token": "abc"}

	key := DefaultCacheKeyFunc("http://example.com", headers)

	if !strings.HasPrefix(key, "http://example.com") {
		t.Errorf("Expected key to start with URL, got '%s'", key)
	}
	if !strings.Contains(key, "Accept=application/json") {
		t.Error("Expected header pair in key")
	}

	// Stable regardless of map iteration order
	for i := 0; i < 20; i++ {
		if DefaultCacheKeyFunc("http://example.com", headers) != key {
			t.Fatal("Expected canonical key to be stable across calls")
		}
	}
}

func TestDefaultCacheKeyFuncDistinguishesHeaders(t *testing.T) {
	base := DefaultCacheKeyFunc("http://example.com", nil)
	withHeader := DefaultCacheKeyFunc("http://example.com", map[string]string{"A": "1"})
	otherValue := DefaultCacheKeyFunc("http://example.com", map[string]string{"A": "2"})

	if base == withHeader || withHeader == otherValue {
		t.Error("Expected distinct keys for distinct header sets")
	}
}

func TestGoCacheSetGet(t *testing.T) {
	cache := NewGoCache(0, 0)

	cache.Set("k", "v")

	body, found := cache.Get("k")
	if !found || body != "v" {
		t.Errorf("Expected ('v', true), got ('%s', %v)", body, found)
	}

	if _, found := cache.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}
}

func TestGoCacheClear(t *testing.T) {
	cache := NewGoCache(0, 0)

	cache.Set("a", "1")
	cache.Clear()

	if _, found := cache.Get("a"); found {
		t.Error("Expected miss after Clear")
	}
}

func TestGoCacheExpiration(t *testing.T) {
	cache := NewGoCache(20*time.Millisecond, 0)

	cache.Set("k", "v")
	if _, found := cache.Get("k"); !found {
		t.Fatal("Expected fresh entry to hit")
	}

	time.Sleep(40 * time.Millisecond)

	if _, found := cache.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestGoCacheDelete(t *testing.T) {
	cache := NewGoCache(0, 0)

	cache.Set("a", "1")
	cache.Delete("a")

	if _, found := cache.Get("a"); found {
		t.Error("Expected deleted key to miss")
	}
}
