// Package cache stores rendered artifacts keyed by scene content.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries as files for the CLI
//   - [RedisCache] shares entries between render server instances
//
// Keys are built by a [Keyer] so the same scene, format and render options
// always map to the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Scale       float64 `json:"scale,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered output of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256(sceneHash, opts)>".
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
