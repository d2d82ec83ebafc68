package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookstore/backend/internal/application/report"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces report entries in a shared Redis
const DefaultKeyPrefix = "bookstore:report:"

// RedisReportCache implements report.Cache using Redis.
// Entries are shared by every server instance and expire with the Redis TTL.
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisReportCache connects to Redis and checks the connection
func NewRedisReportCache(cfg RedisConfig) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisReportCacheWithClient(client, DefaultKeyPrefix), nil
}

// NewRedisReportCacheWithClient creates a cache over an existing client
func NewRedisReportCacheWithClient(client *redis.Client, keyPrefix string) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisReportCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached report under key
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached report %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a report under key for ttl
func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

var _ report.Cache = (*RedisReportCache)(nil)
