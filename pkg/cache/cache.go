// Package cache stores rendered scene artifacts between runs.
//
// Three backends implement [Cache]:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps one JSON entry per key under a directory (CLI)
//   - [RedisCache] keeps entries in Redis (server)
//
// Keys are produced by a [Keyer] so that every backend shares the same
// layout. Scene documents are hashed with [Hash] before they become part of
// a key, so identical documents share artifacts regardless of backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with (nil, false, nil); an error is reserved for
// backend failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes for cached entries.
const (
	// TTLArtifact applies to encoded scene files (ldr, bdr).
	TTLArtifact = 7 * 24 * time.Hour

	// TTLRender applies to rendered graph output (dot, svg, png, pdf).
	TTLRender = 24 * time.Hour
)
