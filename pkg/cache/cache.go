// Package cache memoises rendered figures within one process.
//
// Identical blocks in a batch, or a block re-rendered by watch mode, are
// served from the memo instead of being solved again. Nothing is written
// to disk: the memo lives as long as the [Cache] value.
//
// Keys come from a [Keyer] so that everything affecting the output (the
// block text, formats, canvas, solver and style settings) is part of the
// key.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered figure stays in the memo.
const TTLArtifact = time.Hour

// Cache stores opaque values by key.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a rendered figure.
	ArtifactKey(blockHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists the render settings that change an artifact.
// Settings is any JSON-encodable value, typically the solver, layout and
// style configuration.
type ArtifactKeyOpts struct {
	Formats  []string `json:"formats"`
	Settings any      `json:"settings,omitempty"`
}

// DefaultKeyer hashes keys as "artifact:sha256(...)".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey generates a key for a rendered figure.
func (DefaultKeyer) ArtifactKey(blockHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", blockHash, opts)
}

var _ Keyer = DefaultKeyer{}
