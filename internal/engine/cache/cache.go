// Package cache implements the in-memory analysis cache with bounded
// capacity, pluggable eviction, and mtime-based staleness invalidation.
package cache

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
)

// Cache is a bounded key-value store for analysis artifacts belonging to
// one compilation unit. All methods are safe for concurrent use.
type Cache struct {
	cfg       domain.Config
	validator ports.FileValidator
	logger    ports.Logger

	mu        sync.Mutex
	entries   map[string]*domain.Entry
	policy    Policy
	totalSize int64

	hits          uint64
	misses        uint64
	evictions     uint64
	invalidations uint64
}

// New creates an empty cache governed by cfg. The validator decides
// entry staleness on lookup; pass nil to skip validation entirely.
func New(cfg domain.Config, validator ports.FileValidator, logger ports.Logger) *Cache {
	return &Cache{
		cfg:       cfg,
		validator: validator,
		logger:    logger,
		entries:   make(map[string]*domain.Entry),
		policy:    PolicyFor(cfg.Eviction),
	}
}

// Get looks up the artifact cached under key. The artifact comes back
// as a copy the caller owns. A hit refreshes the entry's recency and
// access count. A stale entry is removed and reported as a miss. When
// the cache is disabled every lookup misses without touching the
// counters.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	if !c.cfg.Enabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if c.cfg.ValidateFiles && c.validator != nil && len(entry.SourceMtimes) > 0 && c.validator.IsStale(entry.SourceMtimes) {
		c.removeLocked(key)
		c.invalidations++
		c.misses++
		c.logger.Debug(fmt.Sprintf("invalidated stale cache entry %s", key))
		return nil, false
	}

	entry.LastAccessed = time.Now().UnixNano()
	entry.AccessCount++
	c.policy.OnAccess(key)
	c.hits++
	return slices.Clone(entry.Artifact), true
}

// Put stores artifact under key, recording mtimes for later staleness
// checks. The artifact bytes are copied in, so the caller may reuse its
// buffer. Overwriting an existing key replaces the entry and refreshes
// its recency without counting an eviction. Eviction runs synchronously
// until both the entry and memory bounds hold again. Disabled caches
// ignore the call.
func (c *Cache) Put(key string, artifact json.RawMessage, mtimes map[string]int64) {
	if !c.cfg.Enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.totalSize -= old.SizeEstimate
		c.policy.OnRemove(key)
		delete(c.entries, key)
	}

	now := time.Now().UnixNano()
	entry := &domain.Entry{
		Key:          key,
		Artifact:     slices.Clone(artifact),
		CreatedAt:    now,
		LastAccessed: now,
		SourceMtimes: mtimes,
	}
	entry.SizeEstimate = entry.EstimateSize()

	c.entries[key] = entry
	c.totalSize += entry.SizeEstimate
	c.policy.OnInsert(key)

	c.evictLocked()
}

// evictLocked removes victims one at a time until both bounds hold.
// With bounds at or below the size of a single entry this converges to
// an empty cache rather than refusing the insert.
func (c *Cache) evictLocked() {
	for len(c.entries) > c.cfg.MaxEntries || c.totalSize > c.cfg.MaxMemoryBytes {
		victim, ok := c.policy.Victim()
		if !ok {
			return
		}
		c.removeLocked(victim)
		c.evictions++
		c.logger.Debug(fmt.Sprintf("evicted cache entry %s", victim))
	}
}

// removeLocked drops key from the entry map, the policy order, and the
// memory accounting. Callers hold c.mu and bump the relevant counter.
func (c *Cache) removeLocked(key string) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	c.totalSize -= entry.SizeEstimate
	delete(c.entries, key)
	c.policy.OnRemove(key)
}

// Stats returns a consistent snapshot of the cache counters and current
// footprint.
func (c *Cache) Stats() domain.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return domain.Stats{
		Hits:             c.hits,
		Misses:           c.misses,
		Evictions:        c.evictions,
		Invalidations:    c.invalidations,
		TotalEntries:     len(c.entries),
		TotalMemoryBytes: c.totalSize,
	}
}

// Clear drops every entry and resets the eviction order. The hit, miss,
// eviction, and invalidation counters keep their values so that session
// statistics survive an explicit clear.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*domain.Entry)
	c.policy = PolicyFor(c.cfg.Eviction)
	c.totalSize = 0
}

// Seed replaces the cache contents with the entries of a persisted
// snapshot, preserving their order as the eviction order. Size estimates
// are recomputed so accounting never depends on the file's claims.
// Bounds are not enforced here; the next Put evicts as usual.
func (c *Cache) Seed(snap domain.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*domain.Entry, len(snap.Entries))
	c.policy = PolicyFor(c.cfg.Eviction)
	c.totalSize = 0

	for i := range snap.Entries {
		entry := snap.Entries[i]
		if _, ok := c.entries[entry.Key]; ok {
			continue
		}
		entry.SizeEstimate = entry.EstimateSize()
		c.entries[entry.Key] = &entry
		c.totalSize += entry.SizeEstimate
		c.policy.OnInsert(entry.Key)
	}
}

// Snapshot captures the current contents in eviction order, oldest
// first, for persistence.
func (c *Cache) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := domain.NewSnapshot()
	keys := c.policy.Keys()
	snap.Entries = make([]domain.Entry, 0, len(keys))
	for _, key := range keys {
		snap.Entries = append(snap.Entries, *c.entries[key])
	}
	return snap
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// InvalidatePaths removes every entry that recorded an mtime for any of
// the given source paths and returns how many were dropped.
func (c *Cache) InvalidatePaths(paths []string) int {
	if len(paths) == 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		for _, path := range paths {
			if _, ok := entry.SourceMtimes[path]; ok {
				c.removeLocked(key)
				c.invalidations++
				removed++
				break
			}
		}
	}
	return removed
}

// PruneStale removes every entry whose recorded sources are stale and
// returns how many were affected. With dryRun set it only counts.
func (c *Cache) PruneStale(dryRun bool) int {
	if c.validator == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stale := 0
	for key, entry := range c.entries {
		if !c.validator.IsStale(entry.SourceMtimes) {
			continue
		}
		stale++
		if !dryRun {
			c.removeLocked(key)
			c.invalidations++
		}
	}
	return stale
}
