package places

import (
	"context"
	"log/slog"
)

// FallbackExtractor runs the primary extractor and asks the secondary one
// only when the primary finds nothing or fails.
type FallbackExtractor struct {
	primary   Extractor
	secondary Extractor
	log       *slog.Logger
}

func NewFallbackExtractor(primary, secondary Extractor, log *slog.Logger) *FallbackExtractor {
	if log == nil {
		log = slog.Default()
	}
	return &FallbackExtractor{primary: primary, secondary: secondary, log: log}
}

func (f *FallbackExtractor) ExtractPlaces(ctx context.Context, text string) ([]string, error) {
	found, err := f.primary.ExtractPlaces(ctx, text)
	if err == nil && len(found) > 0 {
		return found, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.log.Warn("primary place extractor failed, using fallback", "err", err)
	} else {
		f.log.Debug("no place from primary extractor, using fallback")
	}
	return f.secondary.ExtractPlaces(ctx, text)
}
