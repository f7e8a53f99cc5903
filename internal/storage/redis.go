package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRecords stores each record as a plain string key without expiry.
type RedisRecords struct {
	client *redis.Client
	prefix string
}

// NewRedisRecords creates a Redis-backed record store. Keys are written as
// "<prefix>:<key>".
func NewRedisRecords(client *redis.Client, prefix string) *RedisRecords {
	if prefix == "" {
		prefix = "mealplan:record"
	}
	return &RedisRecords{client: client, prefix: prefix}
}

func (r *RedisRecords) key(k string) string {
	return fmt.Sprintf("%s:%s", r.prefix, k)
}

func (r *RedisRecords) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record %s from Redis: %w", key, err)
	}
	return data, nil
}

func (r *RedisRecords) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save record %s to Redis: %w", key, err)
	}
	return nil
}

func (r *RedisRecords) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete record %s from Redis: %w", key, err)
	}
	return nil
}
