// Package cache provides pluggable caching for pipeline stages.
//
// Three backends implement the same interface:
//   - FileCache: per-user directory cache for CLI usage
//   - RedisCache: shared cache for multi-instance serve deployments
//   - NullCache: disables caching entirely
//
// Keys are generated by a Keyer so the CLI, server, and tests agree on the
// cache layout. All keys hash their inputs, so arbitrary entity data never
// leaks into file names or redis keys.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// RelateKey keys a derived relationship set by entity-input hash and
	// grouping attributes.
	RelateKey(entitiesHash string, attrs []string) string

	// LayoutKey keys a computed layout by relationship-set hash and
	// simulation parameters.
	LayoutKey(relationsHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by layout hash and format.
	ArtifactKey(layoutHash, format string) string
}

// LayoutKeyOpts are the simulation parameters that distinguish layouts
// computed from the same relationship set.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Iterations int     `json:"iterations"`
	Damping    float64 `json:"damping"`
	Repulsion  float64 `json:"repulsion"`
	Attraction float64 `json:"attraction"`
	Engine     string  `json:"engine"`
	Seed       uint64  `json:"seed"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RelateKey generates a key for relationship-set caching.
func (k *DefaultKeyer) RelateKey(entitiesHash string, attrs []string) string {
	return hashKey("relate", entitiesHash, attrs)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(relationsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", relationsHash, opts)
}

// ArtifactKey generates a key for rendered-artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash, format string) string {
	return hashKey("artifact", layoutHash, format)
}
