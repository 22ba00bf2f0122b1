package knowledge

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agent-router/internal/index"
)

// MockRetriever is a mock implementation of Retriever using testify/mock.
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Retrieve(ctx context.Context, question string) ([]index.Passage, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]index.Passage), args.Error(1)
}
