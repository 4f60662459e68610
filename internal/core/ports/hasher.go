package ports

// Hasher defines the interface for computing content hashes for cache keys.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash hashes a file's content, returned as 16 hex digits.
	ComputeFileHash(path string) (string, error)

	// ComputeDataHash hashes an in-memory payload, returned as 16 hex digits.
	ComputeDataHash(data []byte) string
}
