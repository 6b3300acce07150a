package secrets

import (
	"sync"
	"time"
)

// cacheEntry represents a single cached item with expiration time.
type cacheEntry struct {
	value      map[string]string
	expiration time.Time
}

// documentCache keeps decoded secret documents for a fixed TTL so that looking up
// several keys of the same document costs a single API call.
type documentCache struct {
	// entries holds the cached documents keyed by secret id.
	entries map[string]cacheEntry

	ttl time.Duration
	now func() time.Time

	// mu protects concurrent access to the entries map.
	mu sync.Mutex
}

func newDocumentCache(ttl time.Duration) *documentCache {
	return &documentCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns the cached document for id, dropping it if expired.
func (c *documentCache) get(id string) (map[string]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiration) {
		delete(c.entries, id)
		return nil, false
	}
	return entry.value, true
}

func (c *documentCache) set(id string, doc map[string]string) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cacheEntry{value: doc, expiration: c.now().Add(c.ttl)}
}

// clear drops every cached document and zeroes the values held.
func (c *documentCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, entry := range c.entries {
		for k := range entry.value {
			entry.value[k] = ""
		}
		delete(c.entries, id)
	}
}
