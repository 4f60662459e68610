package domain

import "path/filepath"

const (
	// TargetDirName is the build-output directory the cache lives under.
	TargetDirName = "target"

	// OwlDirName is the analysis output directory inside the build output.
	OwlDirName = "owl"

	// CacheDirName is the cache directory inside the analysis output.
	CacheDirName = "cache"

	// SnapshotSuffix is the extension of persisted unit snapshots.
	SnapshotSuffix = ".json"

	// TempSuffix is appended to snapshot paths during atomic writes.
	TempSuffix = ".tmp"

	// ConfigFileName is the optional project-level configuration file.
	ConfigFileName = "owlcache.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default cache directory, derived from the
// per-workspace build-output location.
func DefaultCachePath() string {
	return filepath.Join(TargetDirName, OwlDirName, CacheDirName)
}

// DefaultOwlPath returns the analysis output directory that clean removes.
func DefaultOwlPath() string {
	return filepath.Join(TargetDirName, OwlDirName)
}
