// Package cache provides pluggable byte caches for solved placements and
// rendered artifacts.
//
// Solving a constraint document is deterministic, so a placement can be
// keyed by the hash of its canonical document and reused across runs. The
// CLI uses FileCache under the user cache directory; the server can share a
// RedisCache; NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache TTLs per stage. Solves are deterministic, so placements keep for a
// long time; artifacts are cheaper to rebuild and expire sooner.
const (
	TTLPlacement = 7 * 24 * time.Hour
	TTLArtifact  = 24 * time.Hour
)

// ArtifactKeyOpts are the render parameters that distinguish artifacts
// produced from the same document.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// Keyer generates cache keys for the cacheable stages of a run.
type Keyer interface {
	// PlacementKey keys a solved placement by its document hash.
	PlacementKey(docHash string) string

	// ArtifactKey keys a rendered artifact by document hash and render
	// options.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlacementKey generates a key for placement caching.
func (k *DefaultKeyer) PlacementKey(docHash string) string {
	return "placement:" + docHash
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+docHash, opts)
}
