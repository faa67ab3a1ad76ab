// Package cache provides a small read-through cache for catalogue queries.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache stores short-lived serialized query results. Get returns an empty
// string on a miss; cache failures are reported but callers are expected to
// treat them as misses.
type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Key(operation, suffix string) string
	Close() error
}

// redisCache implements Cache on a Redis instance.
type redisCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(addr string, logger zerolog.Logger) Cache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger.With().Str("component", "redis-cache").Logger(),
	}
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return "", fmt.Errorf("cache get failed: %w", err)
	}
	return value, nil
}

func (c *redisCache) Key(operation, suffix string) string {
	return fmt.Sprintf("proshop:%s:%s", operation, suffix)
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

// noopCache implements Cache without storing anything, for deployments
// without Redis.
type noopCache struct{}

// NewNoopCache creates a cache that never hits.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (noopCache) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (noopCache) Key(operation, suffix string) string {
	return fmt.Sprintf("proshop:%s:%s", operation, suffix)
}

func (noopCache) Close() error {
	return nil
}
