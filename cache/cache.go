// Package cache provides an optional L2 read cache for ictx.Database. A
// cache here is a pure string-keyed key/value store; it is never consulted
// by commit's version checks and is invalidated (not refreshed) whenever a
// transaction mutates a cached id, so the worst a stale entry can do is
// serve an old read on the next FetchOne/FetchIfPresent, not corrupt a
// commit decision.
package cache

import (
	"context"
	"time"
)

// Cache is the capability an ictx.Database needs from an L2 read cache.
type Cache interface {
	// Get returns the cached value for key, ok=false if absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value for key with the given expiration; expiration<=0
	// means no expiration.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete removes key, if present. Never an error for an absent key.
	Delete(ctx context.Context, key string) error
	// Ping checks connectivity to the underlying cache, where applicable.
	Ping(ctx context.Context) error
}
