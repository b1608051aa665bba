package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brokmang/internal/org"
	"brokmang/internal/pnl"
	"brokmang/internal/shared/period"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "pnl:"

// Cache holds recently computed P&L results. It is strictly best-effort: any
// Redis failure degrades to recomputation, never to a report error. A nil
// client disables caching entirely.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func CacheKey(orgID string, kind org.ScopeKind, scopeID string, month period.Month) string {
	return fmt.Sprintf("%s%s:%s:%s:%s", cacheKeyPrefix, orgID, kind, scopeID, month)
}

func (c *Cache) Get(ctx context.Context, key string) (pnl.Result, bool) {
	if c == nil || c.rdb == nil {
		return pnl.Result{}, false
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return pnl.Result{}, false
	}

	var result pnl.Result
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return pnl.Result{}, false
	}
	return result, true
}

func (c *Cache) Set(ctx context.Context, key string, result pnl.Result) {
	if c == nil || c.rdb == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, payload, c.ttl).Err()
}

// InvalidateOrg drops every cached result for the organization. Called by the
// deal-lifecycle consumer when a won deal changes the org's revenue.
func (c *Cache) InvalidateOrg(ctx context.Context, orgID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	pattern := cacheKeyPrefix + orgID + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
