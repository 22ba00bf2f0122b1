package cache

import (
	"context"

	"agent-router/internal/geo"
)

// NoOpCache is a cache implementation that does nothing.
// Every lookup is a miss and every write succeeds.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetCoordinates(ctx context.Context, place string) (*geo.Coordinates, error) {
	return nil, nil
}

func (c *NoOpCache) SetCoordinates(ctx context.Context, place string, coords geo.Coordinates) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
