package domain

// Stats is a snapshot of the cache counters and current occupancy.
// The counters are cumulative for the lifetime of one cache instance;
// they survive Clear and reset only when the process restarts.
type Stats struct {
	Hits             uint64 `json:"hits"`
	Misses           uint64 `json:"misses"`
	Evictions        uint64 `json:"evictions"`
	Invalidations    uint64 `json:"invalidations"`
	TotalEntries     int    `json:"total_entries"`
	TotalMemoryBytes int64  `json:"total_memory_bytes"`
}

// HitRate returns the hit percentage over all lookups, or 0 when the
// cache has not been queried yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Add accumulates the counters and occupancy of other into s.
func (s *Stats) Add(other Stats) {
	s.Hits += other.Hits
	s.Misses += other.Misses
	s.Evictions += other.Evictions
	s.Invalidations += other.Invalidations
	s.TotalEntries += other.TotalEntries
	s.TotalMemoryBytes += other.TotalMemoryBytes
}
