// Package cache stores small lookup results between CLI runs.
//
// The docs command resolves the head of a remote branch through git, which
// is slow and needs the network. [FileCache] keeps those answers on disk with
// an expiration; [NullCache] disables caching (--no-cache).
package cache

import (
	"context"
	"time"
)

// Cache stores byte values under string keys.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data for key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// RefKey returns the cache key for the resolved revision of ref in the
// remote repository url.
func RefKey(url, ref string) string {
	return hashKey("ref", url, ref)
}
