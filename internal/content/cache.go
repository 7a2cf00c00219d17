// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/platform/constants"
)

// # Cache

// Cache stores JSON-encodable values by key.
type Cache interface {
	// Get decodes the cached value into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// RedisCache implements [Cache] on Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an already connected client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set implements [Cache].
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// # Cached Client

// CachedClient decorates a [Client] with a read-through [Cache].
//
// Cache failures never fail a request: they are logged and the provider is
// asked instead. Fetch errors are not cached.
type CachedClient struct {
	next   Client
	cache  Cache
	scope  string
	logger *slog.Logger
}

// NewCachedClient constructs a [CachedClient]. scope separates entries fetched
// with different request options (see [Options.Scope]).
func NewCachedClient(next Client, cache Cache, scope string, logger *slog.Logger) *CachedClient {
	return &CachedClient{next: next, cache: cache, scope: scope, logger: logger}
}

// Chapters implements [Client].
func (c *CachedClient) Chapters(ctx context.Context) ([]Chapter, error) {
	key := constants.RedisPrefixChapters + c.scope

	var chapters []Chapter
	if c.lookup(ctx, key, &chapters) {
		return chapters, nil
	}

	chapters, err := c.next.Chapters(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, chapters)
	return chapters, nil
}

// Verses implements [Client].
func (c *CachedClient) Verses(ctx context.Context, loc locator.Locator) (*Sequence, error) {
	key := constants.RedisPrefixVerses + c.scope + ":" + loc.String()

	var seq Sequence
	if c.lookup(ctx, key, &seq) && seq.Locator == loc {
		return &seq, nil
	}

	fetched, err := c.next.Verses(ctx, loc)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, fetched)
	return fetched, nil
}

func (c *CachedClient) lookup(ctx context.Context, key string, dest any) bool {
	hit, err := c.cache.Get(ctx, key, dest)
	if err != nil {
		c.logger.WarnContext(ctx, "content_cache_read_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	if hit {
		c.logger.DebugContext(ctx, "content_cache_hit", slog.String("key", key))
	}
	return hit
}

func (c *CachedClient) store(ctx context.Context, key string, value any) {
	if err := c.cache.Set(ctx, key, value); err != nil {
		c.logger.WarnContext(ctx, "content_cache_write_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
