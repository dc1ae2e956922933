// Package cache provides an in-process TTL cache with prefix-scoped
// invalidation. The clock is injectable so expiry is testable without
// wall-clock sleeps.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a TTL map safe for concurrent use. On a concurrent miss the
// compute may run more than once; last write wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is an aggregate snapshot for the admin surface.
type Stats struct {
	Keys   int   `json:"keys"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// New returns a cache backed by the system clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock returns a cache that reads time from now.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the value for key if present and unexpired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		c.misses.Add(1)
		if ok {
			// expired 항목은 지연 삭제
			c.mu.Lock()
			if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
				delete(c.entries, key)
			}
			c.mu.Unlock()
		}
		return nil, false
	}

	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key for ttl.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// GetOrCompute returns the cached value for key, or runs compute, stores
// the result for ttl and returns it. Errors from compute are returned
// without caching.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}

	c.Set(key, v, ttl)
	return v, nil
}

// InvalidatePrefix removes every entry whose key starts with prefix and
// returns the number removed.
func (c *Cache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Clear removes all entries and returns the number removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = make(map[string]entry)
	return removed
}

// Stats counts unexpired keys and returns hit/miss totals.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	keys := 0
	for _, e := range c.entries {
		if !now.After(e.expiresAt) {
			keys++
		}
	}
	return Stats{
		Keys:   keys,
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
