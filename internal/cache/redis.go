package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agent-router/internal/geo"
)

const (
	// Key prefix for cached coordinates
	coordsKeyPrefix = "geocode:"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func (c *RedisCache) GetCoordinates(ctx context.Context, place string) (*geo.Coordinates, error) {
	data, err := c.client.Get(ctx, coordsKeyPrefix+Key(place)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var coords geo.Coordinates
	if err := json.Unmarshal(data, &coords); err != nil {
		return nil, err
	}
	return &coords, nil
}

func (c *RedisCache) SetCoordinates(ctx context.Context, place string, coords geo.Coordinates) error {
	data, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, coordsKeyPrefix+Key(place), data, c.ttl).Err()
}

// Close closes the cache connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
