package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"arbeitszeit/internal/models"
)

const defaultCacheKey = "arbeitszeit:records"

// CachedTable serves ReadAll from Redis while the snapshot is fresh. Every
// write goes to the underlying table and drops the snapshot.
type CachedTable struct {
	next   Table
	redis  *redis.Client
	ttl    time.Duration
	key    string
	logger *zerolog.Logger
}

// NewCachedTable wraps next with a Redis snapshot cache. A nil client or a
// non-positive ttl disables caching.
func NewCachedTable(next Table, client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *CachedTable {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &CachedTable{next: next, redis: client, ttl: ttl, key: defaultCacheKey, logger: logger}
}

func (c *CachedTable) enabled() bool {
	return c.redis != nil && c.ttl > 0
}

func (c *CachedTable) ReadAll(ctx context.Context) ([]models.Record, error) {
	if c.enabled() {
		if rows, ok := c.readCache(ctx); ok {
			return rows, nil
		}
	}
	rows, err := c.next.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if c.enabled() {
		c.writeCache(ctx, rows)
	}
	return rows, nil
}

func (c *CachedTable) AppendRow(ctx context.Context, rec models.Record) error {
	defer c.invalidate(ctx)
	return c.next.AppendRow(ctx, rec)
}

func (c *CachedTable) UpdateRow(ctx context.Context, index int, rec models.Record) error {
	defer c.invalidate(ctx)
	return c.next.UpdateRow(ctx, index, rec)
}

func (c *CachedTable) DeleteRow(ctx context.Context, index int) error {
	defer c.invalidate(ctx)
	return c.next.DeleteRow(ctx, index)
}

// ReadFresh bypasses the snapshot and replaces it with what the underlying
// table returns. Row positions used for writes must come from here.
func (c *CachedTable) ReadFresh(ctx context.Context) ([]models.Record, error) {
	rows, err := c.next.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if c.enabled() {
		c.writeCache(ctx, rows)
	}
	return rows, nil
}

func (c *CachedTable) readCache(ctx context.Context) ([]models.Record, bool) {
	val, err := c.redis.Get(ctx, c.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("Records cache read failed")
		}
		return nil, false
	}
	var rows []models.Record
	if err := json.Unmarshal(val, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *CachedTable) writeCache(ctx context.Context, rows []models.Record) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("Records cache write failed")
	}
}

func (c *CachedTable) invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, c.key).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("Records cache invalidation failed")
	}
}
