// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache of serialized public API
// responses. Public catalog and content payloads are stored after the
// first render so subsequent requests skip the store entirely. Admin
// mutations invalidate the affected keys; publish clears everything.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// respKeyPrefix is the Valkey key prefix for cached responses.
	respKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a cached payload stays valid. Short
	// on purpose: invalidation covers admin edits, the TTL covers drift.
	DefaultResponseTTL = 5 * time.Minute
)

// ResponseCache manages serialized response caching in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey
// client. A nil client disables caching: every Get misses and every Set
// is a no-op, so demo mode runs without Valkey.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns (nil, false) on miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc.client == nil {
		return nil, false
	}
	val, err := rc.client.Get(ctx, respKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores a payload for key with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if rc.client == nil {
		return
	}
	if err := rc.client.Set(ctx, respKeyPrefix+key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single cached payload.
func (rc *ResponseCache) Invalidate(ctx context.Context, key string) {
	if rc.client == nil {
		return
	}
	if err := rc.client.Del(ctx, respKeyPrefix+key).Err(); err != nil {
		slog.Warn("response cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("response cache invalidated", "key", key)
}

// InvalidateAll removes every cached payload by scanning for the prefix.
// Called after publish and after any product mutation, since the catalog
// listing, search results and the content map could all be affected.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	if rc.client == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, respKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache fully cleared", "deleted", deleted)
	}
}

// ContentKey is the cache key for the public content map.
func ContentKey() string {
	return "_content"
}

// ProductListKey is the cache key for the public product listing.
func ProductListKey() string {
	return "_products"
}

// ProductKey returns the cache key for a product detail payload.
func ProductKey(slug string) string {
	return "product:" + slug
}
