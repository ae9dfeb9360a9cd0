package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis-backed L2 cache.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

// DefaultRedisOptions returns options pointing at a local default Redis
// instance.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{Address: "localhost:6379"}
}

// Redis is a Cache backed by a github.com/redis/go-redis/v9 client. It never
// participates in commit's version checks - it is wired purely as an
// optional accelerator for Database's untransacted reads, and is
// invalidated rather than updated whenever a transaction touches a cached
// id.
type Redis struct {
	client *redis.Client
}

// NewRedis dials a Redis client with the given options.
func NewRedis(opt RedisOptions) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     opt.Address,
			Password: opt.Password,
			DB:       opt.DB,
		}),
	}
}

func (c *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *Redis) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
