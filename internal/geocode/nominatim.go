package geocode

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"agent-router/internal/geo"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "weather-agent"
	defaultTimeout      = 10 * time.Second
)

// Nominatim resolves place names with the OpenStreetMap search API.
type Nominatim struct {
	client *resty.Client
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatim builds a client. Nominatim rejects requests without a
// User-Agent, so an empty one falls back to a default.
func NewNominatim(baseURL, userAgent string, timeout time.Duration) (*Nominatim, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("geocoder url required")
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	return &Nominatim{client: client}, nil
}

func (n *Nominatim) Geocode(ctx context.Context, place string) (geo.Coordinates, error) {
	var results []nominatimResult
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      place,
			"format": "jsonv2",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("nominatim request: %w", err)
	}
	if !resp.IsSuccess() {
		return geo.Coordinates{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode())
	}
	if len(results) == 0 {
		return geo.Coordinates{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}
	return geo.Coordinates{Latitude: lat, Longitude: lon}, nil
}
