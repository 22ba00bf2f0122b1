package geocode

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agent-router/internal/geo"
)

// MockGeocoder is a mock implementation of Geocoder using testify/mock.
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, place string) (geo.Coordinates, error) {
	args := m.Called(ctx, place)
	return args.Get(0).(geo.Coordinates), args.Error(1)
}
