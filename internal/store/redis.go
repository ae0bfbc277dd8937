package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hpungsan/winterarc/internal/errors"
)

// redisKeyPrefix namespaces winterarc records in a shared Redis database.
const redisKeyPrefix = "winterarc:"

// RedisBackend stores each record as a plain Redis string without expiry.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

// OpenRedis parses a redis:// or rediss:// URL, connects and pings.
func OpenRedis(ctx context.Context, rawURL string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.NewStoreUnavailable("redis", err)
	}
	return NewRedisBackend(rdb), nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := b.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStoreUnavailable("redis", err)
	}
	return value, true, nil
}

func (b *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := b.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return errors.NewStoreUnavailable("redis", err)
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return errors.NewStoreUnavailable("redis", err)
	}
	return nil
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) Close() error { return b.rdb.Close() }
