package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/bowlingdle/internal/bowling"
)

const cacheKeyPrefix = "bowlingdle:challenge:"

// CachedStore is a read-through Redis cache in front of another Store.
// Redis failures are logged and served from the underlying store.
type CachedStore struct {
	next   Store
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedStore) Challenge(ctx context.Context, date string) (bowling.Record, error) {
	key := cacheKeyPrefix + date

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec bowling.Record
		if err := json.Unmarshal(data, &rec); err == nil {
			return rec, nil
		}
		c.logger.Warn("dropping corrupt cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}

	rec, err := c.next.Challenge(ctx, date)
	if err != nil {
		return rec, err
	}

	if data, err := json.Marshal(rec); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return rec, nil
}

func (c *CachedStore) PutChallenge(ctx context.Context, rec bowling.Record) error {
	if err := c.next.PutChallenge(ctx, rec); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, cacheKeyPrefix+rec.Date).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "date", rec.Date, "error", err)
	}
	return nil
}
