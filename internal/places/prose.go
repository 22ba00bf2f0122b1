package places

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// gpeLabel marks geo-political entities (countries, cities, states).
const gpeLabel = "GPE"

// commonWords are capitalised ordinary words the tagger tends to label as
// places at the start of a question.
var commonWords = map[string]bool{
	"current": true, "currently": true, "weather": true, "temperature": true,
	"forecast": true, "today": true, "tomorrow": true, "now": true,
	"what": true, "what's": true, "whats": true, "how": true, "is": true,
	"tell": true, "show": true, "give": true, "please": true, "hello": true, "hi": true,
}

// ProseExtractor runs the prose named-entity recognizer locally.
type ProseExtractor struct{}

// NewProseExtractor checks the bundled model loads before handing out an
// extractor.
func NewProseExtractor() (*ProseExtractor, error) {
	if _, err := prose.NewDocument("Berlin is a city."); err != nil {
		return nil, fmt.Errorf("%w: load prose model: %v", ErrUnavailable, err)
	}
	return &ProseExtractor{}, nil
}

func (p *ProseExtractor) ExtractPlaces(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}
	return filterPlaces(doc.Entities()), nil
}

func filterPlaces(entities []prose.Entity) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, ent := range entities {
		if ent.Label != gpeLabel {
			continue
		}
		name := strings.TrimSpace(ent.Text)
		if name == "" || seen[name] || commonWords[strings.ToLower(name)] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
