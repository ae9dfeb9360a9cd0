package ictx

import "github.com/ufoscout/ic-tx/cache"

// CacheType selects which L2 read cache implementation NewWithCache wires
// into a Database.
type CacheType int

const (
	// NoCache disables the L2 cache; reads always go straight to the
	// backend. This is Database's default via New.
	NoCache CacheType = iota
	// InMemoryCache uses cache.InMemory, a plain map guarded by a mutex.
	InMemoryCache
	// RedisCache uses cache.Redis.
	RedisCache
)

// CacheFactory constructs a cache.Cache for a registered CacheType.
type CacheFactory func() cache.Cache

var cacheRegistry = map[CacheType]CacheFactory{
	InMemoryCache: func() cache.Cache { return cache.NewInMemory() },
	RedisCache:    func() cache.Cache { return cache.NewRedis(cache.DefaultRedisOptions()) },
}

// RegisterCacheFactory registers (or replaces) the factory used for t. Call
// this before NewWithCache(t, ...) if you want RedisCache wired with
// non-default options, or to register a custom CacheType of your own.
func RegisterCacheFactory(t CacheType, f CacheFactory) {
	cacheRegistry[t] = f
}

func newCache(t CacheType) cache.Cache {
	if t == NoCache {
		return nil
	}
	if f, ok := cacheRegistry[t]; ok {
		return f()
	}
	return nil
}
