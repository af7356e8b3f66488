// Package cache provides the shared schema cache: an in-memory store of
// extracted AppSpecs plus a bulk loader for persisted schema files.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
	"github.com/nlp2cmd/nlp2cmd/internal/ports"
)

// MemoryCache keeps AppSpecs keyed by program identity + fingerprint. It is
// the only shared-mutation point in the synthesis path: an RWMutex
// serializes Put/Invalidate against concurrent Gets so readers never
// observe a torn entry. Concurrent Puts for the same key are
// last-writer-wins.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]domain.CacheEntry
	ttl        time.Duration
	maxEntries int
}

// NewMemoryCache builds a cache from settings. A zero TTL disables expiry
// (explicit invalidation only).
func NewMemoryCache(settings domain.CacheSettings) *MemoryCache {
	max := settings.MaxEntries
	if max <= 0 {
		max = domain.DefaultMaxCacheEntries
	}
	return &MemoryCache{
		entries:    make(map[string]domain.CacheEntry),
		ttl:        settings.TTLDuration(),
		maxEntries: max,
	}
}

// Get returns the stored spec for key. It never triggers extraction;
// miss handling belongs to the caller.
func (c *MemoryCache) Get(key string) (domain.AppSpec, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return domain.AppSpec{}, false
	}
	if entry.Expired(c.ttl, time.Now()) {
		c.Invalidate(key)
		return domain.AppSpec{}, false
	}
	return entry.Spec, true
}

// Put stores a spec under key, overwriting any live entry.
func (c *MemoryCache) Put(key string, spec domain.AppSpec) {
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = domain.CacheEntry{
		Key:      key,
		Spec:     spec,
		StoredAt: time.Now(),
		Fresh:    true,
	}
	c.evictIfNeeded()
}

// Invalidate drops the entry for key, if any.
func (c *MemoryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Entries lists live entries ordered by key.
func (c *MemoryCache) Entries() []domain.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.CacheEntry)
}

// evictIfNeeded drops the oldest entries once the bound is exceeded.
// Caller holds the write lock.
func (c *MemoryCache) evictIfNeeded() {
	if c.maxEntries <= 0 || len(c.entries) <= c.maxEntries {
		return
	}
	type aged struct {
		key    string
		stored time.Time
	}
	infos := make([]aged, 0, len(c.entries))
	for key, entry := range c.entries {
		infos = append(infos, aged{key: key, stored: entry.StoredAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].stored.Before(infos[j].stored) })
	for i := 0; len(c.entries) > c.maxEntries && i < len(infos); i++ {
		delete(c.entries, infos[i].key)
	}
}

var _ ports.SchemaCache = (*MemoryCache)(nil)
