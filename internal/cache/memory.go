package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"agent-router/internal/geo"
)

const defaultMemorySize = 1024

// MemoryCache keeps coordinates in a size bounded, expiring LRU.
// Used when Redis is not configured or not reachable.
type MemoryCache struct {
	lru *expirable.LRU[string, geo.Coordinates]
}

// NewMemoryCache creates an in-process cache. ttl <= 0 disables expiry.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = defaultMemorySize
	}
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryCache{lru: expirable.NewLRU[string, geo.Coordinates](size, nil, ttl)}
}

func (c *MemoryCache) GetCoordinates(_ context.Context, place string) (*geo.Coordinates, error) {
	coords, ok := c.lru.Get(Key(place))
	if !ok {
		return nil, nil
	}
	return &coords, nil
}

func (c *MemoryCache) SetCoordinates(_ context.Context, place string, coords geo.Coordinates) error {
	c.lru.Add(Key(place), coords)
	return nil
}

func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
