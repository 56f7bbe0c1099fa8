// Package cache stores rendered artifacts so repeated requests for the same
// diagram skip layout and drawing.
//
// Three backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the example name, output
// format, and the full render configuration, so any configuration change
// produces a new key.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/pipeviz/pkg/render"
)

// TTLArtifact is the default lifetime of a rendered artifact.
const TTLArtifact = 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired and
	// unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKeyOpts holds the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string
	Config render.Config
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(example string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>" over the example name, format, and
// configuration.
func (DefaultKeyer) ArtifactKey(example string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", example, opts.Format, opts.Config)
}

// ArtifactKey is shorthand for the default keyer.
func ArtifactKey(example, format string, cfg render.Config) string {
	return DefaultKeyer{}.ArtifactKey(example, ArtifactKeyOpts{Format: format, Config: cfg})
}
