package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// RedisCache shares cached deals between replicas.
type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, ttl: ttl}
}

func dealKey(id uuid.UUID) string {
	return fmt.Sprintf("deal:%s", id)
}

func (c *RedisCache) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	val, err := c.Client.Get(ctx, dealKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get deal from redis: %w", err)
	}

	var p models.Promotion
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deal from redis: %w", err)
	}
	return &p, nil
}

func (c *RedisCache) Set(ctx context.Context, p *models.Promotion) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal deal: %w", err)
	}
	if err := c.Client.Set(ctx, dealKey(p.ID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set deal in redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.Client.Del(ctx, dealKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete deal from redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
