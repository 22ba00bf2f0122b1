package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agent-router/internal/availability"
	"agent-router/internal/config"
	"agent-router/internal/conversation"
	"agent-router/internal/reply"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, query string) reply.Reply {
	args := m.Called(ctx, query)
	return args.Get(0).(reply.Reply)
}

func newTestServer(t *testing.T, p processor, h historySource) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	components := map[string]availability.Status{
		"model":   availability.Ready(),
		"index":   availability.Unavailable("DB_URL is required"),
		"weather": availability.Ready(),
	}
	srv := httptest.NewServer(newRouter(log, p, h, components, 5*time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func TestQueryHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		setup          func(*mockProcessor)
		wantStatusCode int
		wantBody       *queryResponse
	}{
		{
			name:        "weather answer",
			requestBody: `{"query": "How warm is it in Berlin?"}`,
			setup: func(p *mockProcessor) {
				p.On("Process", mock.Anything, "How warm is it in Berlin?").
					Return(reply.OK("The current temperature in Berlin is 18.0°C.")).Once()
			},
			wantStatusCode: http.StatusOK,
			wantBody: &queryResponse{
				Query:    "How warm is it in Berlin?",
				Response: "The current temperature in Berlin is 18.0°C.",
				Code:     reply.CodeOK,
			},
		},
		{
			name:        "failure replies are still 200",
			requestBody: `{"query": "tell me a joke"}`,
			setup: func(p *mockProcessor) {
				p.On("Process", mock.Anything, "tell me a joke").
					Return(reply.Fail(reply.CodeNoResponder, "No fitting agent found.")).Once()
			},
			wantStatusCode: http.StatusOK,
			wantBody: &queryResponse{
				Query:    "tell me a joke",
				Response: "No fitting agent found.",
				Code:     reply.CodeNoResponder,
			},
		},
		{
			name:           "invalid JSON payload returns 400",
			requestBody:    `{invalid json}`,
			setup:          func(*mockProcessor) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing query returns 400",
			requestBody:    `{}`,
			setup:          func(*mockProcessor) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "blank query returns 400",
			requestBody:    `{"query": "   "}`,
			setup:          func(*mockProcessor) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(mockProcessor)
			tt.setup(p)
			srv := newTestServer(t, p, conversation.NewHistory())

			resp, err := http.Post(srv.URL+"/query", "application/json", bytes.NewBufferString(tt.requestBody))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatusCode, resp.StatusCode)
			if tt.wantBody != nil {
				var got queryResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
				assert.Equal(t, *tt.wantBody, got)
			} else {
				p.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
			}
			p.AssertExpectations(t)
		})
	}
}

func TestHistoryHandler(t *testing.T) {
	h := conversation.NewHistory()
	h.Append("Which oil does the car take?", "Use 5W-30.")
	srv := newTestServer(t, new(mockProcessor), h)

	resp, err := http.Get(srv.URL + "/history")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Turns []conversation.Turn `json:"turns"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Turns, 1)
	assert.Equal(t, "Which oil does the car take?", body.Turns[0].Question)
	assert.Equal(t, "Use 5W-30.", body.Turns[0].Answer)
}

func TestHealthAndReadiness(t *testing.T) {
	srv := newTestServer(t, new(mockProcessor), conversation.NewHistory())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, new(mockProcessor), conversation.NewHistory())

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fetch("/query"`)
}

func TestRequestBudgetCoversLongestPath(t *testing.T) {
	cfg := config.Config{
		ExternalTimeout:     30 * time.Second,
		ClassifyMaxAttempts: 3,
		ClassifyBackoff:     200 * time.Millisecond,
	}

	got := requestBudget(cfg)

	// three classification attempts, 600ms of backoff, three responder calls
	minimum := 6*cfg.ExternalTimeout + 600*time.Millisecond
	assert.Greater(t, got, minimum)

	cfg.ClassifyMaxAttempts = 5
	assert.Greater(t, requestBudget(cfg), got)
}
