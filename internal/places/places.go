package places

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by an extractor that failed to initialize.
var ErrUnavailable = errors.New("place extractor unavailable")

// Extractor finds geo-political place names in free text, in the order they
// appear. No match is an empty slice, not an error.
type Extractor interface {
	ExtractPlaces(ctx context.Context, text string) ([]string, error)
}
