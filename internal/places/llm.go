package places

import (
	"context"
	"fmt"
	"strings"

	"agent-router/internal/llm"
)

const noPlaceMarker = "NONE"

const extractPrompt = `List every city, region or country mentioned in the text below, one per line,
in the order they appear, exactly as written. Output nothing else.
If there is none, output %s.

Text: %s`

// LLMExtractor asks the language model for place names. It handles
// lower-case or misspelled names better than the local recognizer.
type LLMExtractor struct {
	client llm.Client
}

func NewLLMExtractor(client llm.Client) (*LLMExtractor, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: no language model", ErrUnavailable)
	}
	return &LLMExtractor{client: client}, nil
}

func (e *LLMExtractor) ExtractPlaces(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	out, err := e.client.Complete(ctx, fmt.Sprintf(extractPrompt, noPlaceMarker, text))
	if err != nil {
		return nil, fmt.Errorf("llm place extraction: %w", err)
	}
	return parsePlaceList(out), nil
}

func parsePlaceList(out string) []string {
	places := []string{}
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789.) "))
		if name == "" || strings.EqualFold(name, noPlaceMarker) || seen[name] {
			continue
		}
		seen[name] = true
		places = append(places, name)
	}
	return places
}
