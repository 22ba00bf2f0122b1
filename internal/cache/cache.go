package cache

import (
	"context"
	"strings"

	"agent-router/internal/geo"
)

// Cache stores resolved coordinates per place name. Weather readings are
// never cached.
type Cache interface {
	// GetCoordinates returns nil on a cache miss.
	GetCoordinates(ctx context.Context, place string) (*geo.Coordinates, error)

	// SetCoordinates stores coordinates for the cache's configured TTL.
	SetCoordinates(ctx context.Context, place string, coords geo.Coordinates) error

	// Close closes the cache connection
	Close() error
}

// Key normalizes a place name so "Berlin" and " berlin" share an entry.
func Key(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}
