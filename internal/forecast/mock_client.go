package forecast

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agent-router/internal/geo"
)

// MockClient is a mock implementation of Client using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Current(ctx context.Context, coords geo.Coordinates) (Reading, error) {
	args := m.Called(ctx, coords)
	return args.Get(0).(Reading), args.Error(1)
}
