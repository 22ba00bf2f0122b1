package dispatch

import (
	"context"

	"github.com/stretchr/testify/mock"

	"agent-router/internal/reply"
)

// MockWeather is a mock implementation of WeatherResponder using testify/mock.
type MockWeather struct {
	mock.Mock
}

func (m *MockWeather) GetWeather(ctx context.Context, utterance string) reply.Reply {
	args := m.Called(ctx, utterance)
	return args.Get(0).(reply.Reply)
}

// MockKnowledge is a mock implementation of KnowledgeResponder using testify/mock.
type MockKnowledge struct {
	mock.Mock
}

func (m *MockKnowledge) Answer(ctx context.Context, query string) reply.Reply {
	args := m.Called(ctx, query)
	return args.Get(0).(reply.Reply)
}
