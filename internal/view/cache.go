// Package view caches rendered public responses keyed by request path and
// exposes the invalidation hook the write paths call after a save, rename,
// or delete. Entries also age out after a TTL so a scheduled post surfaces
// once its date passes, even when no write has touched the cache.
package view

import (
	"strings"
	"sync"
	"time"
)

// Entry is one cached response.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

type record struct {
	entry    Entry
	storedAt time.Time
}

// Cache is a path-keyed response cache safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]record
}

// NewCache returns an empty Cache whose entries expire after ttl.
// A non-positive ttl disables expiry; entries then live until invalidated.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[string]record)}
}

// Get returns the cached entry for path, if any. Expired entries read as
// misses; the next Put overwrites them.
func (c *Cache) Get(path string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.entries[path]
	if !ok {
		return Entry{}, false
	}
	if c.ttl > 0 && time.Since(rec.storedAt) > c.ttl {
		return Entry{}, false
	}
	return rec.entry, true
}

// Put stores an entry for path.
func (c *Cache) Put(path string, entry Entry) {
	c.mu.Lock()
	c.entries[path] = record{entry: entry, storedAt: time.Now()}
	c.mu.Unlock()
}

// Invalidate drops every entry matching one of the given paths. A path
// matches exactly or as a query-string prefix, so invalidating "/blog"
// clears "/blog" and "/blog?page=2" but not "/blog/some-post".
func (c *Cache) Invalidate(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, path := range paths {
			if key == path || strings.HasPrefix(key, path+"?") {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]record)
	c.mu.Unlock()
}

// Len reports the number of cached entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
