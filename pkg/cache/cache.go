// Package cache stores compiled timelines and rendered artifacts so that
// re-rendering an unchanged scene is free.
//
// Backends implement [Cache]: [FileCache] for local use, [PebbleCache] for
// an embedded key-value store, [RedisCache] for a cache shared between
// machines, and [NullCache] to disable caching. Keys are produced by a
// [Keyer]; [WithPrefix] namespaces them when several projects share one
// backend.
package cache

import (
	"context"
	"strconv"
	"time"
)

// Cache is a byte-oriented key-value cache with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error
	Close() error
}

// Default entry lifetimes.
const (
	TTLTimeline = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendPebble = "pebble"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Keyer derives cache keys.
type Keyer interface {
	// TimelineKey identifies the compiled timeline of a scene for a dataset.
	TimelineKey(scene string, values []float64) string
	// ArtifactKey identifies an encoded artifact of a timeline.
	ArtifactKey(timelineHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options an artifact depends on.
type ArtifactKeyOpts struct {
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TimelineKey implements [Keyer].
// Values are keyed by their shortest decimal form, which also covers NaN
// and ±Inf.
func (DefaultKeyer) TimelineKey(scene string, values []float64) string {
	vs := make([]string, len(values))
	for i, v := range values {
		vs[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return hashKey("timeline", scene, vs)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(timelineHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", timelineHash, opts)
}

// WithPrefix returns a keyer that prepends prefix to every key k makes, so
// several projects can share one backend without seeing each other's
// entries. A nil k uses the default keyer.
func WithPrefix(k Keyer, prefix string) Keyer {
	if k == nil {
		k = NewDefaultKeyer()
	}
	return prefixKeyer{k, prefix}
}

type prefixKeyer struct {
	Keyer
	prefix string
}

func (p prefixKeyer) TimelineKey(scene string, values []float64) string {
	return p.prefix + p.Keyer.TimelineKey(scene, values)
}

func (p prefixKeyer) ArtifactKey(timelineHash string, opts ArtifactKeyOpts) string {
	return p.prefix + p.Keyer.ArtifactKey(timelineHash, opts)
}
