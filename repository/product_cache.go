package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/redis/go-redis/v9"
)

const (
	productListCachePrefix = "products:v:"
	productCacheVersionKey = "products:version"
)

// ProductCache caches product list pages. Writes bump a version so every cached page goes stale at once.
type ProductCache interface {
	GetList(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, bool)
	SetList(ctx context.Context, filter models.ProductFilter, resp *models.ProductListResponse) error
	Invalidate(ctx context.Context) error
}

// RedisProductCache implements ProductCache on Redis.
type RedisProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisProductCache creates a new RedisProductCache.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) ProductCache {
	return &RedisProductCache{redis: client, ttl: ttl}
}

func (c *RedisProductCache) GetList(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, bool) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, productListKey(version, filter)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp models.ProductListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *RedisProductCache) SetList(ctx context.Context, filter models.ProductFilter, resp *models.ProductListResponse) error {
	version, err := c.version(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal product list: %w", err)
	}
	return c.redis.Set(ctx, productListKey(version, filter), data, c.ttl).Err()
}

// Invalidate bumps the cache version. Old pages expire on their own TTL.
func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	if err := c.redis.Incr(ctx, productCacheVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}

func (c *RedisProductCache) version(ctx context.Context) (int64, error) {
	ver, err := c.redis.Get(ctx, productCacheVersionKey).Int64()
	if err == nil {
		return ver, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, err
	}
	// First writer initializes the key; everyone else reads what it set.
	if err := c.redis.SetNX(ctx, productCacheVersionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	return c.redis.Get(ctx, productCacheVersionKey).Int64()
}

func productListKey(version int64, f models.ProductFilter) string {
	return fmt.Sprintf("%s%d:st:%s:q:%s:c:%s:l:%d:o:%d",
		productListCachePrefix, version, f.Status, f.Search, f.Category, f.Limit, f.Offset)
}
