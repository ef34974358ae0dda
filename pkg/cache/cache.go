// Package cache provides content-addressed caching for parsed trees,
// layouts, and rendered artifacts.
//
// The Cache interface has three backends:
//   - FileCache: directory-based, for CLI usage
//   - RedisCache: shared, for the HTTP server
//   - NullCache: no-op, for tests and --no-cache runs
//
// Keys are derived from content hashes plus the options that influenced the
// result, so a cache entry is valid for exactly one (input, options) pair.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Parsed trees and layouts are cheap to keep;
// rendered artifacts are larger and expire sooner.
const (
	TTLTree     = 30 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the interface all cache backends implement.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the options that influence a computed layout.
type LayoutKeyOpts struct {
	XScale       float64
	YScale       float64
	MinCollapsed float64
	Reroot       string
	Prune        []string
	Binary       bool
}

// ArtifactKeyOpts are the options that influence a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string
	Style       string
	Width       float64
	ShowLengths bool
}

// TreeKey generates a cache key for a parsed tree from its source hash.
func TreeKey(sourceHash string) string {
	return hashKey("tree", sourceHash)
}

// LayoutKey generates a cache key for a layout computation.
func LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a cache key for a rendered artifact.
func ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
