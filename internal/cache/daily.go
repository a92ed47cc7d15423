// Package cache backs the daily-view read path with redis. Every
// expense mutation invalidates the affected day, which is what keeps
// the view fresh after a create or review save.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dailyKeyPrefix = "daily-expenses:"
	dailyTTL       = 10 * time.Minute
)

// DailyCache is safe to use with a nil client or nil receiver: every
// method degrades to a no-op so the service never depends on redis
// being up.
type DailyCache struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewDailyCache(rdb *redis.Client, log *zap.Logger) *DailyCache {
	return &DailyCache{rdb: rdb, log: log}
}

func (c *DailyCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Get loads the cached rows for a YYYYMMDD date key into dest.
func (c *DailyCache) Get(ctx context.Context, dateKey string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, dailyKeyPrefix+dateKey).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Error("redis GET failed", zap.Error(err), zap.String("date", dateKey))
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.log.Warn("failed to unmarshal cached daily view", zap.String("date", dateKey))
		return false
	}
	return true
}

func (c *DailyCache) Set(ctx context.Context, dateKey string, rows interface{}) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, dailyKeyPrefix+dateKey, data, dailyTTL).Err(); err != nil {
		c.log.Error("redis SET failed", zap.Error(err), zap.String("date", dateKey))
	}
}

func (c *DailyCache) Invalidate(ctx context.Context, dateKey string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, dailyKeyPrefix+dateKey).Err(); err != nil {
		c.log.Error("redis DEL failed", zap.Error(err), zap.String("date", dateKey))
	}
}

// InvalidateAll drops every cached day. Used by the bulk review actions,
// which touch rows across arbitrary dates.
func (c *DailyCache) InvalidateAll(ctx context.Context) {
	if !c.enabled() {
		return
	}
	iter := c.rdb.Scan(ctx, 0, dailyKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Error("redis DEL failed", zap.Error(err), zap.String("key", iter.Val()))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Error("redis SCAN failed", zap.Error(err))
	}
}
