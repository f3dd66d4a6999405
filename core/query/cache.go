package query

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheEntry holds one fetched result set.
type cacheEntry struct {
	// value is the fetched slice, stored as any so one cache serves every
	// record type.
	value any

	// built is when the fetch completed.
	built time.Time

	// ttl is the time-to-live for this entry.
	ttl time.Duration
}

// isExpired returns true if this entry has expired based on its TTL.
func (e *cacheEntry) isExpired() bool {
	if e.ttl == 0 {
		return true // No caching
	}
	return time.Since(e.built) > e.ttl
}

// fetchCache holds fetched results keyed by request cache key.
//
// Each entity has a generation that Notify bumps. Entries and in-flight
// fetches are tagged with the generation they started under, so a fetch that
// raced a write is never stored.
type fetchCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	gens    map[string]uint64
	sf      singleflight.Group
	ttl     time.Duration
}

func newFetchCache(ttl time.Duration) *fetchCache {
	return &fetchCache{
		entries: make(map[string]*cacheEntry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
	}
}

func (c *fetchCache) generation(entity string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[entity]
}

// getOrFetch returns the cached value for key, or runs fetch once for all
// concurrent callers and stores its result.
func (c *fetchCache) getOrFetch(ctx context.Context, entity, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	gen := c.generation(entity)
	fullKey := entity + "|" + strconv.FormatUint(gen, 10) + "|" + key

	// Fast path
	c.mu.RLock()
	entry, exists := c.entries[fullKey]
	c.mu.RUnlock()
	if exists && !entry.isExpired() {
		return entry.value, nil
	}

	// Slow path: one fetch per key and generation
	result, err, _ := c.sf.Do(fullKey, func() (interface{}, error) {
		c.mu.RLock()
		entry, exists := c.entries[fullKey]
		c.mu.RUnlock()
		if exists && !entry.isExpired() {
			return entry.value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.ttl > 0 && c.gens[entity] == gen {
			c.entries[fullKey] = &cacheEntry{value: value, built: time.Now(), ttl: c.ttl}
		}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// invalidate drops every entry of entity and starts a new generation.
func (c *fetchCache) invalidate(entity string) {
	prefix := entity + "|"
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[entity]++
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// size returns the number of stored entries.
func (c *fetchCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
