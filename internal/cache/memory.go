package cache

import (
	"context"
	"sync"
	"time"
)

// maxMemoryEntries bounds the cache. Charts are keyed by their inputs, so the
// key space is unbounded.
const maxMemoryEntries = 1024

type memoryEntry struct {
	expiry time.Time
	value  []byte
}

// MemoryCache keeps entries in process memory.
type MemoryCache struct {
	entries map[string]memoryEntry
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached value if it exists and hasn't expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}
	if !entry.expiry.IsZero() && !c.now().Before(entry.expiry) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current.expiry.Equal(entry.expiry) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

// Set stores a copy of value. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	entry := memoryEntry{value: stored}
	if ttl > 0 {
		entry.expiry = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= maxMemoryEntries {
		c.evictLocked()
	}
	c.entries[key] = entry
	return nil
}

// evictLocked drops expired entries, then the soonest-expiring one if the
// cache is still full. Callers hold c.mu.
func (c *MemoryCache) evictLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if !entry.expiry.IsZero() && !now.Before(entry.expiry) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < maxMemoryEntries {
		return
	}

	victim, found := "", false
	var soonest memoryEntry
	for key, entry := range c.entries {
		if !found || expiresBefore(entry, soonest) {
			victim, soonest, found = key, entry, true
		}
	}
	delete(c.entries, victim)
}

// expiresBefore orders entries by expiry, with entries that never expire last.
func expiresBefore(a, b memoryEntry) bool {
	switch {
	case a.expiry.IsZero():
		return false
	case b.expiry.IsZero():
		return true
	default:
		return a.expiry.Before(b.expiry)
	}
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close releases the entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}
