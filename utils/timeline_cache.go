package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const timelineKeyPrefix = "cache:timeline:"

// TimelineKey returns the cache key for one rendered timeline page.
func TimelineKey(page int) string {
	return fmt.Sprintf("%spage=%d", timelineKeyPrefix, page)
}

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

// TimelineCache memoizes rendered global-timeline pages. Entries expire after
// a TTL and the whole cache is flushed on every write that can change the
// timeline. Backed by Redis when a client is provided, otherwise by an
// in-process map. Safe for concurrent use; a read racing a flush may observe
// either the old entry or a miss.
type TimelineCache struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time

	mu  sync.RWMutex
	mem map[string]cacheEntry
}

// NewTimelineCache creates a cache with the given TTL. rdb may be nil, which
// selects the in-process backend.
func NewTimelineCache(rdb *redis.Client, ttl time.Duration) *TimelineCache {
	return NewTimelineCacheWithClock(rdb, ttl, time.Now)
}

// NewTimelineCacheWithClock lets callers supply the time source, so expiry is
// controllable in tests.
func NewTimelineCacheWithClock(rdb *redis.Client, ttl time.Duration, now func() time.Time) *TimelineCache {
	if ttl <= 0 {
		ttl = 20 * time.Second
	}
	return &TimelineCache{
		rdb: rdb,
		ttl: ttl,
		now: now,
		mem: map[string]cacheEntry{},
	}
}

// Get returns the cached rendering for a key, if present and unexpired.
func (c *TimelineCache) Get(key string) ([]byte, bool) {
	if c.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b, err := c.rdb.Get(ctx, key).Bytes()
		if err != nil {
			if Sugar != nil && err != redis.Nil {
				Sugar.Debugf("timeline cache get failed key=%s err=%v", key, err)
			}
			return nil, false
		}
		return b, true
	}

	c.mu.RLock()
	entry, ok := c.mem[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.mem, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.body, true
}

// Set stores a rendered page under the key with the cache TTL.
func (c *TimelineCache) Set(key string, body []byte) {
	if c.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
			if Sugar != nil {
				Sugar.Warnf("timeline cache set failed key=%s err=%v", key, err)
			}
		}
		return
	}

	c.mu.Lock()
	now := c.now()
	for k, e := range c.mem {
		if now.After(e.expiresAt) {
			delete(c.mem, k)
		}
	}
	c.mem[key] = cacheEntry{body: body, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()
}

// Len reports how many entries the in-process backend currently holds. Always
// zero with a Redis backend, where expiry is the server's job.
func (c *TimelineCache) Len() int {
	if c.rdb != nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}

// Flush drops every cached timeline page. Called on post create/edit/delete.
func (c *TimelineCache) Flush() {
	if c.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		var cursor uint64
		for i := 0; i < 10; i++ { // limit rounds to avoid long loops
			keys, cur, err := c.rdb.Scan(ctx, cursor, timelineKeyPrefix+"*", 1000).Result()
			if err != nil {
				break
			}
			cursor = cur
			if len(keys) > 0 {
				pipe := c.rdb.Pipeline()
				for _, k := range keys {
					pipe.Del(ctx, k)
				}
				_, _ = pipe.Exec(ctx)
			}
			if cursor == 0 {
				break
			}
		}
		return
	}

	c.mu.Lock()
	c.mem = map[string]cacheEntry{}
	c.mu.Unlock()
}
