package domain

// EvictionPolicy selects which entry the cache evicts first when a bound
// is exceeded.
type EvictionPolicy string

const (
	// EvictLRU evicts the least recently used entry first.
	EvictLRU EvictionPolicy = "lru"

	// EvictFIFO evicts the oldest inserted entry first, regardless of
	// access history.
	EvictFIFO EvictionPolicy = "fifo"
)

const (
	// DefaultMaxEntries bounds the number of live entries per unit cache.
	DefaultMaxEntries = 1000

	// DefaultMaxMemoryMB bounds the estimated memory of a unit cache.
	DefaultMaxMemoryMB = 100
)

// Config holds the cache configuration. It is built once at startup and
// never mutated afterwards.
type Config struct {
	// Enabled turns the cache off entirely when false: every Get misses
	// without touching statistics and every Put is a no-op.
	Enabled bool

	// Dir is the directory holding the persisted per-unit snapshots.
	Dir string

	// MaxEntries is the entry-count bound enforced after every Put.
	MaxEntries int

	// MaxMemoryBytes is the memory bound enforced after every Put.
	MaxMemoryBytes int64

	// Eviction selects the eviction policy.
	Eviction EvictionPolicy

	// ValidateFiles enables mtime staleness checks on Get.
	ValidateFiles bool
}

// DefaultConfig returns the documented defaults: caching enabled, the
// build-output cache directory, 1000 entries, 100 MiB, LRU eviction, and
// file validation on.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Dir:            DefaultCachePath(),
		MaxEntries:     DefaultMaxEntries,
		MaxMemoryBytes: DefaultMaxMemoryMB * 1024 * 1024,
		Eviction:       EvictLRU,
		ValidateFiles:  true,
	}
}
