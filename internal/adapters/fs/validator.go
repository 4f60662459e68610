// Package fs provides the filesystem-backed validator and hasher.
package fs

import (
	"os"

	"go.trai.ch/owlcache/internal/core/ports"
)

var _ ports.FileValidator = (*Validator)(nil)

// Validator checks cached source mtimes against the filesystem.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// IsStale reports whether any recorded source file changed since its
// mtime was captured. A file that cannot be stat'ed counts as changed,
// whether it was deleted or is merely unreadable. Any mtime difference
// counts, newer or older, so restored backups invalidate too. An empty
// map means the entry tracks no sources and is never stale.
func (v *Validator) IsStale(mtimes map[string]int64) bool {
	for path, recorded := range mtimes {
		info, err := os.Stat(path)
		if err != nil {
			return true
		}
		if info.ModTime().UnixNano() != recorded {
			return true
		}
	}
	return false
}

// CaptureMtimes records the current mtime of each path. Paths that
// cannot be stat'ed are omitted rather than failing the capture.
func (v *Validator) CaptureMtimes(paths []string) map[string]int64 {
	mtimes := make(map[string]int64, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		mtimes[path] = info.ModTime().UnixNano()
	}
	return mtimes
}
