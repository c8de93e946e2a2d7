package credstore

import "context"

// Artifact keys used by the Manager. Exposed so alternative stores can
// pre-seed or inspect state in tests.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Store defines the persistence interface for session artifacts.
type Store interface {
	// Set writes an artifact, replacing any previous value under the key
	Set(ctx context.Context, key string, art Artifact) error

	// Get retrieves an artifact by key, returning ErrNotFound when absent
	Get(ctx context.Context, key string) (Artifact, error)

	// Delete removes an artifact; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases store resources
	Close() error
}
