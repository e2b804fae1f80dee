package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/woopit/woopit-server/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForSearchingCount generates the Redis key holding the number of pending
// match requests in one matching bucket.
func (c *RedisCache) KeyForSearchingCount(activity, level string, maxParticipants int) string {
	return fmt.Sprintf("searching:count:%s:%s:%d", activity, level, maxParticipants)
}

// UpdateSearchingCount stores the pending count for a bucket with a 1h TTL.
func (c *RedisCache) UpdateSearchingCount(ctx context.Context, activity, level string, maxParticipants int, count int64) error {
	key := c.KeyForSearchingCount(activity, level, maxParticipants)
	return c.Client.Set(ctx, key, count, time.Hour).Err()
}

// GetSearchingCount reads the cached pending count for a bucket.
// A cache miss returns (0, false, nil).
func (c *RedisCache) GetSearchingCount(ctx context.Context, activity, level string, maxParticipants int) (int64, bool, error) {
	key := c.KeyForSearchingCount(activity, level, maxParticipants)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// InvalidateSearchingCount drops the cached count for a bucket. Called after
// every submission, since the bucket's pending set just changed.
func (c *RedisCache) InvalidateSearchingCount(ctx context.Context, activity, level string, maxParticipants int) error {
	return c.Del(ctx, c.KeyForSearchingCount(activity, level, maxParticipants))
}

// KeyActivities is the cache key for the static activity list (JSON array).
const KeyActivities = "activities:list"
