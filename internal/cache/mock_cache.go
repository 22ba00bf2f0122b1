package cache

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agent-router/internal/geo"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetCoordinates(ctx context.Context, place string) (*geo.Coordinates, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Coordinates), args.Error(1)
}

func (m *MockCache) SetCoordinates(ctx context.Context, place string, coords geo.Coordinates) error {
	args := m.Called(ctx, place, coords)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
