// Package domain contains the core types of the analysis cache.
package domain

import "encoding/json"

// entryOverhead approximates the fixed in-memory cost of an entry beyond
// its key, artifact, and mtime map (struct fields, map headers, bookkeeping).
const entryOverhead = 64

// Entry is a single cached analysis result for one compilation-unit key.
type Entry struct {
	// Key identifies the analyzed input, formatted as
	// "{file_hash}:{input_hash}" with both halves 16 hex digits.
	Key string `json:"key"`

	// Artifact is the opaque analysis payload. The cache never inspects it.
	Artifact json.RawMessage `json:"artifact"`

	// CreatedAt is the UnixNano timestamp of first insertion.
	// Overwriting a key resets it.
	CreatedAt int64 `json:"created_at"`

	// LastAccessed is the UnixNano timestamp of the most recent hit.
	// Never older than CreatedAt.
	LastAccessed int64 `json:"last_accessed"`

	// AccessCount counts successful lookups since insertion.
	AccessCount uint32 `json:"access_count"`

	// SourceMtimes maps source file paths to their mtime (UnixNano)
	// captured at insertion. Used for staleness checks.
	SourceMtimes map[string]int64 `json:"source_mtimes,omitempty"`

	// SizeEstimate is the approximate memory footprint in bytes,
	// computed at insertion and used for memory-budget accounting.
	SizeEstimate int64 `json:"size_estimate"`
}

// EstimateSize computes the approximate memory footprint of the entry.
func (e *Entry) EstimateSize() int64 {
	size := int64(len(e.Key)) + int64(len(e.Artifact)) + entryOverhead
	for path := range e.SourceMtimes {
		size += int64(len(path)) + 8
	}
	return size
}
