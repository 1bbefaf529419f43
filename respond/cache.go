package respond

import (
	"fmt"
	"sync"
	"time"

	"transit-agent/matching"
)

type cacheEntry struct {
	key       string
	value     string
	createdAt time.Time
	hitCount  int
}

// Cache is a bounded, time-expiring store of final answers. Eviction is
// insertion-order (oldest entry first), deliberately not LRU: entries are not
// promoted on read. Expiry is lazy, detected on Get; no background sweep.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	entries    map[string]*cacheEntry
	order      []string
	now        func() time.Time
}

func NewCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*cacheEntry),
		now:        time.Now,
	}
}

// CacheKey builds the cache key from the normalized query text plus whether
// prior-history context was used, so the same question with and without
// history caches separately.
func CacheKey(query string, hasHistory bool) string {
	return fmt.Sprintf("%s|history=%t", matching.NormalizeText(query), hasHistory)
}

// Get returns the cached answer for the query, if present and fresh. An entry
// older than the TTL is deleted and reported as a miss.
func (c *Cache) Get(query string, hasHistory bool) (string, bool) {
	key := CacheKey(query, hasHistory)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(entry.createdAt) > c.ttl {
		c.remove(key)
		return "", false
	}
	entry.hitCount++
	return entry.value, true
}

// Set stores an answer, evicting the oldest-inserted entry when at capacity.
func (c *Cache) Set(query string, hasHistory bool, value string) {
	key := CacheKey(query, hasHistory)
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.value = value
		existing.createdAt = c.now()
		return
	}
	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		c.remove(c.order[0])
	}
	c.entries[key] = &cacheEntry{key: key, value: value, createdAt: c.now()}
	c.order = append(c.order, key)
}

// Len returns the number of stored entries, counting expired ones not yet
// swept by a read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
