package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReportCache keeps compiled reports in redis as JSON. Keys embed a
// generation counter; Invalidate bumps it so older entries are never read
// again and expire on their own.
type ReportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, prefix string, ttl time.Duration) *ReportCache {
	if prefix == "" {
		prefix = "fpt:report"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ReportCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	full, err := c.key(ctx, key)
	if err != nil {
		return false, err
	}
	val, err := c.client.Get(ctx, full).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("get report %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("decode report %s: %w", key, err)
	}
	return true, nil
}

func (c *ReportCache) Set(ctx context.Context, key string, value any) error {
	full, err := c.key(ctx, key)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", key, err)
	}
	if err := c.client.Set(ctx, full, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set report %s: %w", key, err)
	}
	return nil
}

func (c *ReportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("bump report generation: %w", err)
	}
	return nil
}

func (c *ReportCache) key(ctx context.Context, key string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		return "", fmt.Errorf("read report generation: %w", err)
	default:
		if _, convErr := strconv.ParseInt(gen, 10, 64); convErr != nil {
			gen = "0"
		}
	}
	return c.prefix + ":" + gen + ":" + key, nil
}

func (c *ReportCache) generationKey() string {
	return c.prefix + ":generation"
}

// Ping checks the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
