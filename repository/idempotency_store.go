package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers which order a checkout idempotency key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID uuid.UUID, key string) (uuid.UUID, bool, error)
	Remember(ctx context.Context, userID uuid.UUID, key string, orderID uuid.UUID) error
}

// RedisIdempotencyStore keeps keys in Redis for ttl.
type RedisIdempotencyStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisIdempotencyStore creates a new RedisIdempotencyStore.
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) IdempotencyStore {
	return &RedisIdempotencyStore{redis: client, ttl: ttl}
}

func idempotencyRedisKey(userID uuid.UUID, key string) string {
	return fmt.Sprintf("idem:checkout:%s:%s", userID, key)
}

func (s *RedisIdempotencyStore) Lookup(ctx context.Context, userID uuid.UUID, key string) (uuid.UUID, bool, error) {
	val, err := s.redis.Get(ctx, idempotencyRedisKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	orderID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt idempotency entry %q: %w", val, err)
	}
	return orderID, true, nil
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, userID uuid.UUID, key string, orderID uuid.UUID) error {
	return s.redis.Set(ctx, idempotencyRedisKey(userID, key), orderID.String(), s.ttl).Err()
}
