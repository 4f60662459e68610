// Package session coordinates the per-unit caches of one analysis run:
// lazy snapshot loading, key derivation, and concurrent persistence.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"runtime"
	"sort"
	"sync"

	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
	"go.trai.ch/owlcache/internal/engine/cache"
	"golang.org/x/sync/errgroup"
)

// Session owns one cache per compilation unit. Unit caches are created
// on first use, seeded from their persisted snapshot, and written back
// together by Save. All methods are safe for concurrent use.
type Session struct {
	cfg       domain.Config
	store     ports.SnapshotStore
	validator ports.FileValidator
	hasher    ports.Hasher
	tracer    ports.Tracer
	logger    ports.Logger

	mu    sync.Mutex
	units map[string]*cache.Cache

	// saveMu serializes whole checkpoint passes. Unit writes within one
	// pass stay parallel.
	saveMu sync.Mutex
}

// New creates an empty session.
func New(
	cfg domain.Config,
	store ports.SnapshotStore,
	validator ports.FileValidator,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
) *Session {
	return &Session{
		cfg:       cfg,
		store:     store,
		validator: validator,
		hasher:    hasher,
		tracer:    tracer,
		logger:    logger,
		units:     make(map[string]*cache.Cache),
	}
}

// unit returns the cache for a unit, loading its snapshot on first use.
// When the cache is disabled no snapshot is read; the unit cache itself
// rejects all operations.
func (s *Session) unit(name string) *cache.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.units[name]; ok {
		return c
	}

	c := cache.New(s.cfg, s.validator, s.logger)
	if s.cfg.Enabled {
		snap, err := s.store.Load(name)
		if err != nil {
			s.logger.Warn(fmt.Sprintf("starting with empty cache for unit %s: %v", name, err))
		}
		c.Seed(snap)
		if n := len(snap.Entries); n > 0 {
			s.logger.Debug(fmt.Sprintf("cache loaded: %d entries for unit %s", n, name))
		}
	}

	s.units[name] = c
	return c
}

// Key derives the cache key for an analysis input: the content hash of
// the source file and the hash of the unit's analysis input, joined by
// a colon.
func (s *Session) Key(sourcePath string, input []byte) (string, error) {
	fileHash, err := s.hasher.ComputeFileHash(sourcePath)
	if err != nil {
		return "", err
	}
	return fileHash + ":" + s.hasher.ComputeDataHash(input), nil
}

// Get looks up an artifact in the unit's cache.
func (s *Session) Get(unit, key string) (json.RawMessage, bool) {
	return s.unit(unit).Get(key)
}

// Put stores an artifact in the unit's cache, recording the current
// mtimes of the contributing source files for staleness checks.
func (s *Session) Put(unit, key string, artifact json.RawMessage, sources []string) {
	if !s.cfg.Enabled {
		return
	}

	var mtimes map[string]int64
	if s.validator != nil && len(sources) > 0 {
		mtimes = s.validator.CaptureMtimes(sources)
	}
	s.unit(unit).Put(key, artifact, mtimes)
}

// Units returns the names of all units the session has touched, sorted.
func (s *Session) Units() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.units))
	for name := range s.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadAll materializes a cache for every unit with a persisted
// snapshot. Units already loaded are left untouched.
func (s *Session) LoadAll() error {
	if !s.cfg.Enabled {
		return nil
	}

	units, err := s.store.ListUnits()
	if err != nil {
		return err
	}
	for _, name := range units {
		s.unit(name)
	}
	return nil
}

// Stats aggregates the counters of every loaded unit cache.
func (s *Session) Stats() domain.Stats {
	var total domain.Stats
	for _, c := range s.snapshotUnits() {
		total.Add(c.Stats())
	}
	return total
}

// StatsByUnit returns the counters of each loaded unit cache.
func (s *Session) StatsByUnit() map[string]domain.Stats {
	units := s.snapshotUnits()
	out := make(map[string]domain.Stats, len(units))
	for name, c := range units {
		out[name] = c.Stats()
	}
	return out
}

// InvalidateChanged drops every cached entry that recorded an mtime for
// one of the given paths, across all units, and returns the number of
// entries removed.
func (s *Session) InvalidateChanged(paths []string) int {
	removed := 0
	for _, c := range s.snapshotUnits() {
		removed += c.InvalidatePaths(paths)
	}
	if removed > 0 {
		s.logger.Info(fmt.Sprintf("invalidated %d cache entries for %d changed files", removed, len(paths)))
	}
	return removed
}

// PruneStale removes entries whose sources are stale across all units
// and returns how many were affected. With dryRun set it only counts.
func (s *Session) PruneStale(dryRun bool) int {
	stale := 0
	for _, c := range s.snapshotUnits() {
		stale += c.PruneStale(dryRun)
	}
	return stale
}

// Clear drops the contents of every loaded unit cache. Counters survive
// so the final statistics still describe the whole run.
func (s *Session) Clear() {
	for _, c := range s.snapshotUnits() {
		c.Clear()
	}
}

// Save persists every loaded unit cache, one snapshot file per unit,
// written concurrently. Disabled sessions write nothing. The first
// failure cancels the remaining writes and is returned. Concurrent
// calls are serialized, so two checkpoints never write a unit's
// snapshot at the same time.
func (s *Session) Save(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	ctx, span := s.tracer.Start(ctx, "cache.save")
	defer span.End()

	units := s.snapshotUnits()
	span.SetAttribute("units", len(units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for name, c := range units {
		g.Go(func() error {
			_, unitSpan := s.tracer.Start(ctx, "cache.save.unit", ports.WithUnit(name))
			defer unitSpan.End()

			snap := c.Snapshot()
			if err := s.store.Save(name, snap); err != nil {
				unitSpan.RecordError(err)
				return err
			}

			s.logger.Debug(fmt.Sprintf("cache saved: %d entries for unit %s to %s",
				len(snap.Entries), name, s.store.Path(name)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	s.logStats()
	return nil
}

// snapshotUnits copies the unit map so iteration happens outside the
// session lock.
func (s *Session) snapshotUnits() map[string]*cache.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()

	units := make(map[string]*cache.Cache, len(s.units))
	maps.Copy(units, s.units)
	return units
}

// logStats reports the aggregated session counters.
func (s *Session) logStats() {
	stats := s.Stats()
	s.logger.Info(fmt.Sprintf(
		"cache statistics: %d hits, %d misses, %.1f%% hit rate, %d evictions",
		stats.Hits, stats.Misses, stats.HitRate(), stats.Evictions))
}
