package geocode

import (
	"context"
	"errors"

	"agent-router/internal/geo"
)

// ErrNotFound is returned when the service knows no coordinates for a place.
var ErrNotFound = errors.New("geocode: place not found")

// Geocoder maps a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (geo.Coordinates, error)
}
