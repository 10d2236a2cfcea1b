package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the record under one key per kiosk. The TTL is refreshed
// on every save, so a kiosk that restarts quickly finds its session again and
// one that stays down loses it.
type RedisStorage struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisStorage builds storage for the kiosk identified by kioskID.
func NewRedisStorage(client redis.Cmdable, prefix, kioskID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, key: prefix + kioskID, ttl: ttl}
}

// Key returns the redis key this storage writes.
func (r *RedisStorage) Key() string {
	return r.key
}

func (r *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RedisStorage) Save(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

func (r *RedisStorage) Remove(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
