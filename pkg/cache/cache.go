// Package cache stores derived depviz artifacts.
//
// Only outputs computed from an input tree are cached (rendered SVG, layout
// JSON, LaTeX, converted images); trees themselves are never persisted.
// Keys are built by a [Keyer] from a SHA-256 of the input plus the options
// that influence the result, so a changed option never serves a stale
// artifact.
//
// Backends:
//   - [NullCache]: never stores anything
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: shared cache for the HTTP service
//   - [MongoCache]: shared cache with a TTL index on expiry
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default time-to-live of a rendered artifact.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
// A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	VizType  string  `json:"viz_type"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	MinScale float64 `json:"min_scale"`
	MaxScale float64 `json:"max_scale"`
	ZoomK    float64 `json:"zoom_k"`
	ZoomX    float64 `json:"zoom_x"`
	ZoomY    float64 `json:"zoom_y"`
	Selected []int   `json:"selected,omitempty"`
	Shorten  bool    `json:"shorten,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Theme       string  `json:"theme,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	Converter   string  `json:"converter,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Quality     int     `json:"quality,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns the key for a layout of the input identified by inputHash.
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey returns the key for an artifact derived from a layout.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
