// Package cas implements the on-disk snapshot store for per-unit caches.
package cas

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SnapshotStore = (*Store)(nil)

// Store persists one JSON snapshot file per compilation unit under a
// single cache directory. Writes go through a temp file and rename so a
// crash mid-write never leaves a truncated snapshot behind.
type Store struct {
	dir    string
	logger ports.Logger

	mu    sync.Mutex
	units map[string]*sync.Mutex
}

// NewStore creates a snapshot store rooted at dir. The directory is
// created on the first save, not here.
func NewStore(dir string, logger ports.Logger) *Store {
	return &Store{
		dir:    filepath.Clean(dir),
		logger: logger,
		units:  make(map[string]*sync.Mutex),
	}
}

// Path returns the canonical snapshot path for a unit.
func (s *Store) Path(unit string) string {
	return filepath.Join(s.dir, unit+domain.SnapshotSuffix)
}

// Load reads the snapshot for a unit. A missing file yields an empty
// snapshot. Corrupt or version-mismatched files are discarded with a
// warning and also yield an empty snapshot, so a bad cache never blocks
// analysis. Only I/O failures beyond "not exist" surface as errors.
func (s *Store) Load(unit string) (domain.Snapshot, error) {
	path := s.Path(unit)

	//nolint:gosec // Path is derived from the configured cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewSnapshot(), nil
		}
		return domain.NewSnapshot(), zerr.With(zerr.Wrap(err, domain.ErrSnapshotReadFailed.Error()), "path", path)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn(fmt.Sprintf("discarding corrupt cache snapshot %s: %v", path, err))
		return domain.NewSnapshot(), nil
	}

	if snap.Version != domain.SnapshotVersion {
		s.logger.Warn(fmt.Sprintf(
			"discarding cache snapshot %s: version %d, want %d", path, snap.Version, domain.SnapshotVersion))
		return domain.NewSnapshot(), nil
	}

	return snap, nil
}

// Save atomically writes the snapshot for a unit. The data is flushed
// and synced to a temp file first and renamed over the canonical path
// only after that succeeds. The temp file is removed on any failure.
// Saves of the same unit share one temp path and take turns; the last
// writer wins.
func (s *Store) Save(unit string, snap domain.Snapshot) error {
	lock := s.unitLock(unit)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotCreateFailed.Error()), "dir", s.dir)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotMarshalFailed.Error()), "unit", unit)
	}

	path := s.Path(unit)
	tmp := path + domain.TempSuffix

	if err := s.writeTemp(tmp, data); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotRenameFailed.Error()), "path", path)
	}

	return nil
}

// unitLock returns the write lock for a unit, creating it on first use.
func (s *Store) unitLock(unit string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.units[unit]
	if !ok {
		lock = &sync.Mutex{}
		s.units[unit] = lock
	}
	return lock
}

// writeTemp writes data to the temp path, syncing before close so the
// rename publishes fully durable bytes.
func (s *Store) writeTemp(tmp string, data []byte) error {
	//nolint:gosec // Path is derived from the configured cache directory
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotCreateFailed.Error()), "path", tmp)
	}

	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = f.Sync()
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "path", tmp)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "path", tmp)
	}

	return nil
}

// RemoveAll deletes the cache directory and everything under it.
// Removing a directory that never existed is not an error.
func (s *Store) RemoveAll() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheDirRemoveFailed.Error()), "dir", s.dir)
	}
	return nil
}

// ListUnits returns the unit names with a persisted snapshot, sorted. A
// missing cache directory yields an empty list.
func (s *Store) ListUnits() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheDirListFailed.Error()), "dir", s.dir)
	}

	var units []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), domain.SnapshotSuffix) {
			continue
		}
		units = append(units, strings.TrimSuffix(entry.Name(), domain.SnapshotSuffix))
	}
	sort.Strings(units)
	return units, nil
}
