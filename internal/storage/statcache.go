package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const statKeyPrefix = "docsvc:stat:"

// StatCache keeps object metadata in Redis so repeated downloads of the same
// object skip a round trip to the storage backend. Misses and Redis failures
// both fall through to the gateway; the cache is never authoritative.
type StatCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatCache builds a cache with the given entry TTL.
func NewStatCache(client *redis.Client, ttl time.Duration) *StatCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatCache{client: client, ttl: ttl}
}

// Get returns the cached metadata for the storage key, if present.
func (c *StatCache) Get(ctx context.Context, key string) (ObjectInfo, bool) {
	if c == nil || c.client == nil {
		return ObjectInfo{}, false
	}
	raw, err := c.client.Get(ctx, statKeyPrefix+key).Bytes()
	if err != nil {
		return ObjectInfo{}, false
	}
	var info ObjectInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return ObjectInfo{}, false
	}
	return info, true
}

// Set stores metadata for the storage key, best effort.
func (c *StatCache) Set(ctx context.Context, key string, info ObjectInfo) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	c.client.Set(ctx, statKeyPrefix+key, raw, c.ttl)
}

// Invalidate drops the cached metadata for the storage key.
func (c *StatCache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, statKeyPrefix+key)
}
