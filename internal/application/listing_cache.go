package application

import (
	"sync"
	"time"
)

// listingCache stores recently computed public listings to avoid repeated
// repository scans for identical browse queries while records remain
// unchanged. Writers invalidate the whole cache.
type listingCache[T any] struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]listingCacheEntry[T]
}

type listingCacheEntry[T any] struct {
	values    []T
	expiresAt time.Time
}

func newListingCache[T any](ttl time.Duration, maxEntries int, now func() time.Time) *listingCache[T] {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &listingCache[T]{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]listingCacheEntry[T]),
	}
}

func (c *listingCache[T]) Get(key string) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneListing(entry.values), true
}

func (c *listingCache[T]) Store(key string, values []T) {
	if c == nil {
		return
	}
	cloned := cloneListing(values)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = listingCacheEntry[T]{values: cloned, expiresAt: expiry}
}

func (c *listingCache[T]) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]listingCacheEntry[T])
	c.mu.Unlock()
}

func (c *listingCache[T]) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *listingCache[T]) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneListing[T any](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	copy(out, values)
	return out
}
