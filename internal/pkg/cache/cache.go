// Package cache provides a Redis-backed cache for computed prediction and
// analysis payloads. All operations are best-effort: a cache failure is
// logged and the caller recomputes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"lottery-analyzer/internal/config"
	"lottery-analyzer/internal/game"
)

// Cache wraps the Redis client. A nil *Cache is valid and caches nothing,
// so callers never branch on whether caching is configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis. Returns nil (disabled cache) when no address is
// configured.
func New(ctx context.Context, cfg *config.RedisConfig) (*Cache, error) {
	if cfg.Addr == "" {
		log.Info().Msg("Redis not configured, prediction cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	return &Cache{client: client, ttl: cfg.TTL}, nil
}

// Key builds a cache key scoped to a game and the draw count at computation
// time, so a new import naturally misses.
func Key(code game.Code, section string, drawCount int) string {
	return fmt.Sprintf("lottery:%s:%s:%d", code, section, drawCount)
}

// Get unmarshals a cached payload into dest. The boolean reports a hit.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache payload corrupt, ignoring")
		return false
	}
	return true
}

// Set stores a payload under the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// InvalidateGame drops every cached payload of one game. Called after an
// import or recompute.
func (c *Cache) InvalidateGame(ctx context.Context, code game.Code) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("lottery:%s:*", code)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("cache scan failed")
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		if err := c.client.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}
