package forecast

import (
	"context"
	"errors"
	"fmt"

	"agent-router/internal/geo"
)

// ErrMalformed is returned when a successful response lacks the reading.
var ErrMalformed = errors.New("forecast: malformed response")

// StatusError reports a non-success answer from the weather service.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("forecast: weather service returned status %d", e.StatusCode)
}

// Reading is a current-conditions observation. Temperature is in °C.
type Reading struct {
	Temperature float64
	WindSpeed   float64
	WeatherCode int
	Time        string
}

// Client fetches current conditions for a position.
type Client interface {
	Current(ctx context.Context, coords geo.Coordinates) (Reading, error)
}
