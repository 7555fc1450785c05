package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "stockbook:revoked:"

// RedisRevocationStore keeps revoked session ids as expiring Redis keys.
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(addr string, password string, db int) *RedisRevocationStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisRevocationStore{client: client}
}

func (c *RedisRevocationStore) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisRevocationStore) Close() error {
	return c.client.Close()
}

func (c *RedisRevocationStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, revokedKeyPrefix+sessionID, 1, ttl).Err()
}

func (c *RedisRevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := c.client.Exists(ctx, revokedKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
