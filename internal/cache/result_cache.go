package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/pipeline/safetystock"
	"github.com/redis/go-redis/v9"
)

// ResultCache stores optimization results keyed by a fingerprint of
// (datasets, parameters). Runs are deterministic, so a cached entry is
// always valid for its fingerprint.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) ([]safetystock.Result, bool, error)
	Set(ctx context.Context, fingerprint string, results []safetystock.Result) error
}

// NewResultCache builds a Redis-backed cache when enabled, a noop
// otherwise.
func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return NewNoopResultCache(), nil
	}
	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &redisResultCache{client: client, ttl: ttl}, nil
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func cacheKey(fingerprint string) string {
	return "meio:results:" + fingerprint
}

func (c *redisResultCache) Get(ctx context.Context, fingerprint string) ([]safetystock.Result, bool, error) {
	payload, err := c.client.Get(ctx, cacheKey(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var results []safetystock.Result
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached results: %w", err)
	}
	return results, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, fingerprint string, results []safetystock.Result) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(fingerprint), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// noopResultCache never hits; used when caching is disabled.
type noopResultCache struct{}

// NewNoopResultCache returns a cache that stores nothing.
func NewNoopResultCache() ResultCache {
	return noopResultCache{}
}

func (noopResultCache) Get(context.Context, string) ([]safetystock.Result, bool, error) {
	return nil, false, nil
}

func (noopResultCache) Set(context.Context, string, []safetystock.Result) error {
	return nil
}
