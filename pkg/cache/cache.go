// Package cache stores rendered artifacts between runs.
//
// A [Cache] is a flat byte store with per-entry expiry. Three backends are
// provided: [FileCache] for the CLI, [RedisCache] for the HTTP server and
// [NullCache] to disable caching. Keys are produced by a [Keyer] so that
// callers never build key strings by hand; [ScopedKeyer] namespaces them.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value byte store with expiry.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A ttl of zero stores an entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
