package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"api/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache is an optional redis-backed snapshot store used to absorb
// leaderboard read volume. Every write path that can change a leaderboard
// deletes the challenge's snapshot in the same call, so a caller always
// reads its own writes. With an empty address the cache is disabled and
// every method is a no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a cache backed by the redis instance at addr, or a disabled
// cache when addr is empty.
func New(addr string) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    30 * time.Second,
	}
}

// Enabled reports whether a redis backend is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads the value stored under key into dest. Returns false on
// miss, on a disabled cache, or on any redis error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get %s: %v", key, err)
		}
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("cache decode %s: %v", key, err)
		metrics.CacheMisses.Inc()
		return false
	}
	metrics.CacheHits.Inc()
	return true
}

// SetJSON stores v under key with the cache TTL. Failures are logged and
// otherwise ignored; the cache is never load-bearing.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// Delete removes keys from the cache.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache delete: %v", err)
	}
}
