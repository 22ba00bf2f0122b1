package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the provider answers without content.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	// Complete sends a single prompt and returns the model's text.
	Complete(ctx context.Context, prompt string) (string, error)
}
