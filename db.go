package ictx

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ufoscout/ic-tx/cache"
)

// readCacheTTL bounds how long an L2 cache entry survives without being
// touched by a mutation. Invalidation on commit keeps entries fresh in the
// common case; this is only a backstop against a missed invalidation path.
const readCacheTTL = 5 * time.Minute

// Database is the shared front door onto a Backend: it routes untransacted
// reads straight through, and mints Transactions that borrow the same
// backend for the duration of their commit.
//
// Database is cheaply copyable: copying it yields another handle pointing
// at the exact same backend and the same commit lock, not a data copy. This
// is how multiple request handlers obtain per-request handles while
// preserving a single logical store. The mutation scope is a real
// sync.Mutex spanning a full commit, so the handle is safe to share across
// goroutines, not just across cooperative-scheduler interleavings.
type Database[K comparable, V any] struct {
	backend        Backend[K, V]
	mu             *sync.Mutex
	cache          cache.Cache
	logger         *slog.Logger
	commitLogLevel slog.Level
}

// New wraps a Backend in a Database handle using DefaultOptions (no L2
// cache, default logger).
func New[K comparable, V any](backend Backend[K, V]) Database[K, V] {
	return NewWithOptions[K, V](backend, DefaultOptions())
}

// NewWithCache wraps a Backend in a Database handle backed by an L2 read
// cache of the given CacheType, otherwise using DefaultOptions. The cache
// only ever accelerates FetchOne/FetchIfPresent; every commit invalidates
// the cache entries for the ids it touched before returning, and Phase A's
// version checks always read the backend directly.
func NewWithCache[K comparable, V any](backend Backend[K, V], t CacheType) Database[K, V] {
	opt := DefaultOptions()
	opt.CacheType = t
	return NewWithOptions[K, V](backend, opt)
}

// NewWithOptions wraps a Backend in a Database handle configured by opt.
func NewWithOptions[K comparable, V any](backend Backend[K, V], opt Options) Database[K, V] {
	return Database[K, V]{
		backend:        backend,
		mu:             &sync.Mutex{},
		cache:          newCache(opt.CacheType),
		logger:         opt.logger(),
		commitLogLevel: opt.CommitLogLevel,
	}
}

// FetchOne routes to the L2 cache first if one is configured, falling back
// to the backend on a miss and repopulating the cache; it never mutates the
// backend or any open transaction.
func (d Database[K, V]) FetchOne(ctx context.Context, id K) (Record[K, V], error) {
	if d.cache != nil {
		if rec, ok := d.cacheGet(ctx, id); ok {
			return rec, nil
		}
	}
	rec, err := d.backend.FetchOne(ctx, id)
	if err == nil {
		d.cacheSet(ctx, id, rec)
	}
	return rec, err
}

// FetchIfPresent routes to the L2 cache first if one is configured,
// falling back to the backend on a miss.
func (d Database[K, V]) FetchIfPresent(ctx context.Context, id K) (Record[K, V], bool, error) {
	if d.cache != nil {
		if rec, ok := d.cacheGet(ctx, id); ok {
			return rec, true, nil
		}
	}
	rec, ok, err := d.backend.FetchIfPresent(ctx, id)
	if err == nil && ok {
		d.cacheSet(ctx, id, rec)
	}
	return rec, ok, err
}

// Tx mints a new, empty Transaction bound to this Database's backend. The
// transaction shares the same L2 cache, so its commit can invalidate the
// ids it touched.
func (d Database[K, V]) Tx() *Transaction[K, V] {
	return newTransaction(d.backend, d.mu, d.cache, d.logger, d.commitLogLevel)
}

func cacheKey[K any](id K) string {
	return "ictx:" + stringOf(id)
}

func (d Database[K, V]) cacheGet(ctx context.Context, id K) (Record[K, V], bool) {
	var zero Record[K, V]
	raw, ok, err := d.cache.Get(ctx, cacheKey(id))
	if err != nil || !ok {
		return zero, false
	}
	var rec Record[K, V]
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return zero, false
	}
	return rec, true
}

func (d Database[K, V]) cacheSet(ctx context.Context, id K, rec Record[K, V]) {
	if d.cache == nil {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = d.cache.Set(ctx, cacheKey(id), string(raw), readCacheTTL)
}

// Backend returns the backend this handle wraps, for callers that need to
// reach backend-specific capabilities beyond the engine's core contract
// (e.g. a reference backend's Len, or a custom backend's admin methods).
func (d Database[K, V]) Backend() Backend[K, V] {
	return d.backend
}
