package domain

// SnapshotVersion is the current persisted cache format version.
// Snapshots carrying any other version are discarded on load.
const SnapshotVersion = 2

// Snapshot is the persisted form of one unit's cache. Entries appear in
// the store's recency/insertion order so that eviction ordering survives
// a save/load round trip.
type Snapshot struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// NewSnapshot returns an empty snapshot at the current format version.
func NewSnapshot() Snapshot {
	return Snapshot{Version: SnapshotVersion}
}
