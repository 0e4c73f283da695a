package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

type sentReceipt struct {
	ProviderID string    `json:"providerId"`
	SentAt     time.Time `json:"sentAt"`
}

func (c *RedisCache) StoreSent(ctx context.Context, messageID int64, providerID string, sentAt time.Time) error {
	key := fmt.Sprintf("msg:%d", messageID)
	val := sentReceipt{
		ProviderID: providerID,
		SentAt:     sentAt.UTC(),
	}

	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func (c *RedisCache) IncrSent(ctx context.Context, slug string) error {
	return c.rdb.Incr(ctx, fmt.Sprintf("broadcast:%s:sent", slug)).Err()
}

func (c *RedisCache) IncrFailed(ctx context.Context, slug string) error {
	return c.rdb.Incr(ctx, fmt.Sprintf("broadcast:%s:failed", slug)).Err()
}
