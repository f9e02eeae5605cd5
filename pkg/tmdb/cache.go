package tmdb

import (
	"context"
	"time"

	"github.com/deeperweave/backend/pkg/logging"
	"github.com/go-redis/redis/v8"
)

// Cache stores raw TMDB responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// RedisCache is a Cache backed by Redis. Errors degrade to cache misses.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "tmdb:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Warn().Err(err).Str("key", key).Msg("tmdb cache read failed")
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("tmdb cache write failed")
	}
}
