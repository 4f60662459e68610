package ports

// FileValidator defines the interface for mtime-based staleness checks.
//
//go:generate mockgen -source=validator.go -destination=mocks/mock_validator.go -package=mocks
type FileValidator interface {
	// IsStale reports whether any of the recorded source files changed on
	// disk: a missing file, a stat error, or an mtime that differs in
	// either direction all count as stale. An empty map is never stale.
	IsStale(sourceMtimes map[string]int64) bool

	// CaptureMtimes records the current mtime (UnixNano) of each path.
	// Paths that cannot be stated are omitted.
	CaptureMtimes(paths []string) map[string]int64
}
