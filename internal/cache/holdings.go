// Package cache keeps short-lived copies of read-heavy library views in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"libraryhub/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewRedisClient connects to cfg.RedisURL. An empty URL disables caching and
// returns a nil client.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	var opts *redis.Options
	if strings.Contains(cfg.RedisURL, "://") {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.RedisURL}
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// HoldingsCache stores the ids of each reader's held books as one JSON
// value. Book rows are not cached since their quantity changes on every
// loan. A nil client turns every call into a miss or a no-op.
type HoldingsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewHoldingsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *HoldingsCache {
	return &HoldingsCache{client: client, ttl: ttl, logger: logger}
}

func holdingsKey(readerID int64) string {
	return fmt.Sprintf("library:holdings:reader:%d", readerID)
}

// GetHoldings reports a miss on any Redis or decode failure so the caller
// falls back to the database.
func (c *HoldingsCache) GetHoldings(ctx context.Context, readerID int64) ([]int64, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, holdingsKey(readerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("holdings cache read failed", "reader_id", readerID, "error", err)
		}
		return nil, false
	}

	var bookIDs []int64
	if err := json.Unmarshal(raw, &bookIDs); err != nil {
		c.logger.Warn("holdings cache entry corrupt", "reader_id", readerID, "error", err)
		return nil, false
	}
	return bookIDs, true
}

func (c *HoldingsCache) SetHoldings(ctx context.Context, readerID int64, bookIDs []int64) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(bookIDs)
	if err != nil {
		c.logger.Warn("holdings cache encode failed", "reader_id", readerID, "error", err)
		return
	}
	if err := c.client.Set(ctx, holdingsKey(readerID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("holdings cache write failed", "reader_id", readerID, "error", err)
	}
}

func (c *HoldingsCache) InvalidateHoldings(ctx context.Context, readerID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, holdingsKey(readerID)).Err(); err != nil {
		c.logger.Warn("holdings cache invalidate failed", "reader_id", readerID, "error", err)
	}
}
