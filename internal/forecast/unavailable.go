package forecast

import (
	"context"
	"fmt"

	"agent-router/internal/geo"
)

// Unavailable stands in for a weather service client that could not be
// built. Every call fails with the construction error.
type Unavailable struct {
	err error
}

func NewUnavailable(err error) *Unavailable {
	return &Unavailable{err: err}
}

func (u *Unavailable) Current(context.Context, geo.Coordinates) (Reading, error) {
	return Reading{}, fmt.Errorf("forecast client unavailable: %w", u.err)
}
