package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/core-coin/walletsync/internal/models"
)

const keyPrefix = "walletsync:address:"

// RedisCache stores subject -> wallet address. Addresses are immutable once
// stored, so an entry can only ever be missing, never stale.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ models.AddressCache = (*RedisCache)(nil)

// NewRedisClient connects to a single Redis node and checks it with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{addr},
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetAddress(ctx context.Context, subjectID string) (string, error) {
	address, err := c.client.Get(ctx, key(subjectID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cached address: %w", err)
	}
	return address, nil
}

func (c *RedisCache) SetAddress(ctx context.Context, subjectID, address string) error {
	if err := c.client.Set(ctx, key(subjectID), address, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache address: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func key(subjectID string) string {
	return keyPrefix + subjectID
}
