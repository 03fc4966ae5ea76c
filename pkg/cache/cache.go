// Package cache stores search outcomes and rendered artifacts keyed by the
// content of the graph they were computed from.
//
// Backends: [FileCache] for the CLI, [RedisCache] and [MongoCache] for
// shared deployments of the HTTP server, [MemoryCache] for tests and
// [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per artifact kind.
const (
	TTLSearch = 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	SearchKey(graphHash string, opts SearchKeyOpts) string
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// SearchKeyOpts holds the query parameters that affect a search outcome.
type SearchKeyOpts struct {
	Start    string `json:"start"`
	Goal     string `json:"goal"`
	MaxDepth int    `json:"max_depth"`
	Strategy string `json:"strategy"`
}

// RenderKeyOpts holds the parameters that affect a rendered graph.
type RenderKeyOpts struct {
	Format  string   `json:"format"`
	Path    []string `json:"path,omitempty"`
	Visited []string `json:"visited,omitempty"`
}

// DefaultKeyer hashes the key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SearchKey returns "search:<hash>".
func (DefaultKeyer) SearchKey(graphHash string, opts SearchKeyOpts) string {
	return hashKey("search", graphHash, opts)
}

// RenderKey returns "render:<hash>".
func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}
