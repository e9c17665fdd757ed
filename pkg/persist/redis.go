package persist

import (
	"context"
	"errors"
	"time"
)

// RedisClient is the subset of Redis operations the storage needs.
// It is satisfied by a thin adapter over github.com/redis/go-redis/v9.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisStatusCmd
	Get(ctx context.Context, key string) RedisStringCmd
}

// RedisStatusCmd represents a Redis status command result.
type RedisStatusCmd interface {
	Err() error
}

// RedisStringCmd represents a Redis string command result.
type RedisStringCmd interface {
	Result() (string, error)
}

// ErrRedisNil is returned when a key doesn't exist in Redis.
// This should match redis.Nil from go-redis.
var ErrRedisNil = errors.New("redis: nil")

// RedisStorage stores items as Redis strings.
type RedisStorage struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures RedisStorage.
type RedisOption func(*RedisStorage)

// WithRedisPrefix sets the key prefix.
// Default: "ucom:".
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *RedisStorage) {
		r.prefix = prefix
	}
}

// WithRedisTTL expires items after d. Zero keeps them forever.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(r *RedisStorage) {
		r.ttl = d
	}
}

// NewRedisStorage creates a Redis-backed storage.
func NewRedisStorage(client RedisClient, opts ...RedisOption) *RedisStorage {
	r := &RedisStorage{
		client: client,
		prefix: "ucom:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetItem returns the stored value for key.
func (r *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if err.Error() == ErrRedisNil.Error() {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// SetItem stores value under key.
func (r *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}
