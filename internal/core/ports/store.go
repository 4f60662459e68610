package ports

import "go.trai.ch/owlcache/internal/core/domain"

// SnapshotStore defines the interface for persisting per-unit cache snapshots.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SnapshotStore interface {
	// Load reads the snapshot for a compilation unit. A missing file or a
	// corrupt/incompatible snapshot yields an empty snapshot and a nil
	// error; only I/O failures beyond "not exist" surface as errors.
	Load(unit string) (domain.Snapshot, error)

	// Save atomically replaces the unit's persisted snapshot. On failure
	// the previously persisted snapshot is left untouched. Safe for
	// concurrent use; saves of the same unit are serialized.
	Save(unit string, snap domain.Snapshot) error

	// ListUnits returns the names of all persisted units.
	ListUnits() ([]string, error)

	// RemoveAll deletes the entire cache directory. Removing a directory
	// that does not exist is not an error.
	RemoveAll() error

	// Path returns the canonical snapshot path for a unit.
	Path(unit string) string
}
