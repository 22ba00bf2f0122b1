package forecast

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"agent-router/internal/geo"
)

const (
	DefaultOpenMeteoURL = "https://api.open-meteo.com"
	defaultTimeout      = 10 * time.Second
)

// OpenMeteo reads current_weather from the Open-Meteo forecast API.
type OpenMeteo struct {
	client *resty.Client
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		WindSpeed   float64  `json:"windspeed"`
		WeatherCode int      `json:"weathercode"`
		Time        string   `json:"time"`
	} `json:"current_weather"`
}

func NewOpenMeteo(baseURL string, timeout time.Duration) (*OpenMeteo, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("forecast url required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &OpenMeteo{client: client}, nil
}

func (o *OpenMeteo) Current(ctx context.Context, coords geo.Coordinates) (Reading, error) {
	var body openMeteoResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":        strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
			"longitude":       strconv.FormatFloat(coords.Longitude, 'f', -1, 64),
			"current_weather": "true",
		}).
		SetResult(&body).
		Get("/v1/forecast")
	if err != nil {
		return Reading{}, fmt.Errorf("open-meteo request: %w", err)
	}
	if !resp.IsSuccess() {
		return Reading{}, &StatusError{StatusCode: resp.StatusCode()}
	}
	if body.CurrentWeather == nil || body.CurrentWeather.Temperature == nil {
		return Reading{}, ErrMalformed
	}
	cw := body.CurrentWeather
	return Reading{
		Temperature: *cw.Temperature,
		WindSpeed:   cw.WindSpeed,
		WeatherCode: cw.WeatherCode,
		Time:        cw.Time,
	}, nil
}
