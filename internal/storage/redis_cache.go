package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/contentful"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// Upstream is the content client whose responses are cached.
type Upstream interface {
	GetEntries(ctx context.Context, q contentful.Query) (*contentful.RawCollection, error)
	GetEntry(ctx context.Context, id string) (*contentful.RawEntry, error)
}

// RedisCache serves Contentful reads from Redis, falling back to the
// upstream client on a miss. Redis errors never fail a read.
type RedisCache struct {
	rdb  redis.Cmdable
	next Upstream
	ttl  time.Duration
	log  *slog.Logger
}

func NewRedisCache(rdb redis.Cmdable, next Upstream, ttl time.Duration, log *slog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisCache{rdb: rdb, next: next, ttl: ttl, log: log}
}

// KeyPrefix namespaces every key the cache writes.
const KeyPrefix = "newsdesk:contentful:"

func entriesKey(q contentful.Query) string {
	return fmt.Sprintf("%sentries:%016x", KeyPrefix, xxhash.Sum64String(q.Encode()))
}

func entryKey(id string) string {
	return fmt.Sprintf("%sentry:%s", KeyPrefix, id)
}

// Purge deletes every cached response and returns how many keys were removed.
func Purge(ctx context.Context, rdb redis.Cmdable) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, KeyPrefix+"*", 500).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// GetEntries returns the cached collection for q or fetches and stores it.
func (c *RedisCache) GetEntries(ctx context.Context, q contentful.Query) (*contentful.RawCollection, error) {
	key := entriesKey(q)
	var cached contentful.RawCollection
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}
	col, err := c.next.GetEntries(ctx, q)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, col)
	return col, nil
}

// GetEntry returns the cached entry for id or fetches and stores it.
func (c *RedisCache) GetEntry(ctx context.Context, id string) (*contentful.RawEntry, error) {
	key := entryKey(id)
	var cached contentful.RawEntry
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}
	e, err := c.next.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, e)
	return e, nil
}

func (c *RedisCache) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn("cache: get failed", "key", key, "error", err)
		return false
	}
	if err := contentful.JSON.Unmarshal(b, dst); err != nil {
		c.log.Warn("cache: corrupt entry", "key", key, "error", err)
		return false
	}
	return true
}

func (c *RedisCache) store(ctx context.Context, key string, v any) {
	b, err := contentful.JSON.Marshal(v)
	if err != nil {
		c.log.Warn("cache: encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn("cache: set failed", "key", key, "error", err)
	}
}
