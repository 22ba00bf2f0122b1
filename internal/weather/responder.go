package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"agent-router/internal/availability"
	"agent-router/internal/forecast"
	"agent-router/internal/geo"
	"agent-router/internal/geocode"
	"agent-router/internal/places"
	"agent-router/internal/reply"
)

const (
	MsgUnavailable        = "The weather agent is currently unavailable."
	MsgPlaceNotRecognized = "I could not recognize the location."
	msgCoordinatesFmt     = "I could not determine the coordinates for %s."
	msgStatusFmt          = "Weather data could not be retrieved (status: %d)."
	MsgFailed             = "An error occurred while retrieving the weather data."
	msgTemperatureFmt     = "The current temperature in %s is %s°C."
)

const defaultStageTimeout = 30 * time.Second

// Deps wires a Responder. Status is the combined initialization result of
// the extractor and the geocoder.
type Deps struct {
	Extractor    places.Extractor
	Geocoder     geocode.Geocoder
	Forecast     forecast.Client
	Status       availability.Status
	StageTimeout time.Duration
	Log          *slog.Logger
}

// Responder answers "what is the weather in X" with a three stage
// pipeline: place extraction, geocoding, forecast fetch. Every stage fails
// on its own message and later stages are skipped. It keeps no state
// between calls.
type Responder struct {
	extractor places.Extractor
	geocoder  geocode.Geocoder
	forecast  forecast.Client
	status    availability.Status
	timeout   time.Duration
	log       *slog.Logger
}

func NewResponder(d Deps) *Responder {
	if d.StageTimeout <= 0 {
		d.StageTimeout = defaultStageTimeout
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Responder{
		extractor: d.Extractor,
		geocoder:  d.Geocoder,
		forecast:  d.Forecast,
		status:    d.Status,
		timeout:   d.StageTimeout,
		log:       d.Log.With("responder", "weather"),
	}
}

// GetWeather never fails: every error path becomes a reply.
func (r *Responder) GetWeather(ctx context.Context, utterance string) (out reply.Reply) {
	if !r.status.IsReady() {
		r.log.Warn("weather responder unavailable", "reason", r.status.Reason())
		return reply.Fail(reply.CodeWeatherUnavailable, MsgUnavailable)
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("weather pipeline panicked", "panic", rec)
			out = reply.Fail(reply.CodeWeatherFailed, MsgFailed)
		}
	}()

	r.log.Debug("processing utterance", "utterance", utterance)

	place, ok := r.extractPlace(ctx, utterance)
	if !ok {
		return reply.Fail(reply.CodePlaceNotRecognized, MsgPlaceNotRecognized)
	}

	coords, err := r.geocode(ctx, place)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			r.log.Warn("no coordinates for place", "place", place)
		} else {
			r.log.Error("geocoding failed", "place", place, "err", err)
		}
		return reply.Fail(reply.CodeCoordinatesNotFound, fmt.Sprintf(msgCoordinatesFmt, place))
	}
	r.log.Debug("resolved coordinates", "place", place, "lat", coords.Latitude, "lon", coords.Longitude)

	reading, err := r.fetch(ctx, coords)
	if err != nil {
		var statusErr *forecast.StatusError
		if errors.As(err, &statusErr) {
			r.log.Error("weather service returned error status", "status", statusErr.StatusCode)
			return reply.Fail(reply.CodeForecastStatus, fmt.Sprintf(msgStatusFmt, statusErr.StatusCode))
		}
		r.log.Error("weather fetch failed", "place", place, "err", err)
		return reply.Fail(reply.CodeWeatherFailed, MsgFailed)
	}

	r.log.Debug("current conditions",
		"place", place,
		"temperature", reading.Temperature,
		"wind_speed", reading.WindSpeed,
		"weather_code", reading.WeatherCode,
		"observed_at", reading.Time,
	)
	return reply.OK(fmt.Sprintf(msgTemperatureFmt, place, FormatTemperature(reading.Temperature)))
}

func (r *Responder) extractPlace(ctx context.Context, utterance string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	found, err := r.extractor.ExtractPlaces(ctx, utterance)
	if err != nil {
		r.log.Error("place extraction failed", "err", err)
		return "", false
	}
	if len(found) == 0 {
		r.log.Debug("no place found in utterance")
		return "", false
	}
	return found[0], true
}

func (r *Responder) geocode(ctx context.Context, place string) (geo.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.geocoder.Geocode(ctx, place)
}

func (r *Responder) fetch(ctx context.Context, coords geo.Coordinates) (forecast.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.forecast.Current(ctx, coords)
}

// FormatTemperature prints whole degrees with one decimal ("18.0") and
// everything else at full precision ("18.25").
func FormatTemperature(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
