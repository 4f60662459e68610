package domain

import "go.trai.ch/zerr"

var (
	// ErrCacheDisabled is returned when an operation requires the cache
	// to be enabled.
	ErrCacheDisabled = zerr.New("cache is disabled")

	// ErrSnapshotReadFailed is returned when a persisted snapshot cannot be read.
	ErrSnapshotReadFailed = zerr.New("failed to read cache snapshot")

	// ErrSnapshotMarshalFailed is returned when a snapshot cannot be serialized.
	ErrSnapshotMarshalFailed = zerr.New("failed to marshal cache snapshot")

	// ErrSnapshotCreateFailed is returned when the snapshot temp file cannot be created.
	ErrSnapshotCreateFailed = zerr.New("failed to create cache snapshot file")

	// ErrSnapshotWriteFailed is returned when the snapshot temp file cannot be written.
	ErrSnapshotWriteFailed = zerr.New("failed to write cache snapshot")

	// ErrSnapshotRenameFailed is returned when the atomic rename over the
	// canonical snapshot path fails.
	ErrSnapshotRenameFailed = zerr.New("failed to install cache snapshot")

	// ErrSourceHashFailed is returned when the source file for a cache key
	// cannot be hashed.
	ErrSourceHashFailed = zerr.New("failed to hash source file")

	// ErrCacheDirListFailed is returned when the cache directory cannot be listed.
	ErrCacheDirListFailed = zerr.New("failed to list cache directory")

	// ErrCacheDirRemoveFailed is returned when the cache directory cannot be removed.
	ErrCacheDirRemoveFailed = zerr.New("failed to remove cache directory")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")
)
