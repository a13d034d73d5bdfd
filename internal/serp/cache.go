package serp

import (
	"sync"
	"time"
)

// responseCache is a concurrency-safe TTL cache for result pages. Failed
// lookups are cached too so a dead provider is not hammered inside one scan.
type responseCache struct {
	// mu guards concurrent access to the cache data
	mu sync.RWMutex
	// ttl is the time-to-live for cached result pages
	ttl time.Duration
	// data maps query keys to their cached result pages
	data map[string]cacheEntry
}

// cacheEntry holds one cached lookup outcome and its expiry
type cacheEntry struct {
	resp    *Response
	err     error
	expires time.Time
}

// newResponseCache creates a cache with the given TTL, falling back to the
// default when non-positive
func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &responseCache{
		ttl:  ttl,
		data: make(map[string]cacheEntry),
	}
}

// get returns the cached entry for a key when present and fresh
func (c *responseCache) get(key string) (cacheEntry, bool) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || !entry.expires.After(time.Now()) {
		return cacheEntry{}, false
	}

	return entry, true
}

// put stores a lookup outcome under a key
func (c *responseCache) put(key string, resp *Response, err error) {
	c.mu.Lock()
	c.data[key] = cacheEntry{
		resp:    resp,
		err:     err,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}
