// Package cache stores encoded renders keyed by everything that determines
// their bytes.
//
// A render is reproducible when its seed, timestamp, identity, source and
// size are fixed, so the same request can be answered from a [Cache]
// instead of running the pipeline again. Three backends are provided:
//
//   - [FileCache]: JSON entries on local disk, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so callers never assemble them by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLArtifact is how long an encoded render stays cached.
const TTLArtifact = 7 * 24 * time.Hour

// Keyer builds cache keys.
type Keyer interface {
	RenderKey(opts RenderKeyOpts) string
}

// RenderKeyOpts lists the inputs that determine a render's bytes.
type RenderKeyOpts struct {
	Identity   string
	SourceHash string // Hash of the source bytes, empty when absent
	Seed       uint64
	Timestamp  time.Time
	Size       int
	Format     string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey hashes the render inputs. The timestamp is keyed on the wall
// clock the caption shows: truncated to the second, in its own UTC offset.
func (k *DefaultKeyer) RenderKey(opts RenderKeyOpts) string {
	return hashKey("render",
		opts.Identity,
		opts.SourceHash,
		opts.Seed,
		opts.Timestamp.Truncate(time.Second).Format(time.RFC3339),
		opts.Size,
		opts.Format,
	)
}

var _ Keyer = (*DefaultKeyer)(nil)
