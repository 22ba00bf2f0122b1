package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"agent-router/internal/availability"
	"agent-router/internal/forecast"
	"agent-router/internal/geo"
	"agent-router/internal/geocode"
	"agent-router/internal/places"
	"agent-router/internal/reply"
)

var berlin = geo.Coordinates{Latitude: 52.52, Longitude: 13.405}

type mocks struct {
	extractor *places.MockExtractor
	geocoder  *geocode.MockGeocoder
	forecast  *forecast.MockClient
}

func newResponder(status availability.Status) (*Responder, mocks) {
	m := mocks{
		extractor: new(places.MockExtractor),
		geocoder:  new(geocode.MockGeocoder),
		forecast:  new(forecast.MockClient),
	}
	r := NewResponder(Deps{
		Extractor:    m.extractor,
		Geocoder:     m.geocoder,
		Forecast:     m.forecast,
		Status:       status,
		StageTimeout: time.Second,
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return r, m
}

func TestGetWeather(t *testing.T) {
	const utterance = "what's the weather in Berlin"

	tests := []struct {
		name     string
		setup    func(m mocks)
		want     reply.Reply
		geocodes int
		fetches  int
	}{
		{
			name: "success",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{"Berlin"}, nil)
				m.geocoder.On("Geocode", mock.Anything, "Berlin").Return(berlin, nil)
				m.forecast.On("Current", mock.Anything, berlin).Return(forecast.Reading{Temperature: 18.0}, nil)
			},
			want:     reply.OK("The current temperature in Berlin is 18.0°C."),
			geocodes: 1,
			fetches:  1,
		},
		{
			name: "first place wins",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{"Berlin", "Paris"}, nil)
				m.geocoder.On("Geocode", mock.Anything, "Berlin").Return(berlin, nil)
				m.forecast.On("Current", mock.Anything, berlin).Return(forecast.Reading{Temperature: -3.5}, nil)
			},
			want:     reply.OK("The current temperature in Berlin is -3.5°C."),
			geocodes: 1,
			fetches:  1,
		},
		{
			name: "no place recognized",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{}, nil)
			},
			want: reply.Fail(reply.CodePlaceNotRecognized, MsgPlaceNotRecognized),
		},
		{
			name: "extractor error",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return(nil, errors.New("model crashed"))
			},
			want: reply.Fail(reply.CodePlaceNotRecognized, MsgPlaceNotRecognized),
		},
		{
			name: "coordinates not found",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{"Atlantis"}, nil)
				m.geocoder.On("Geocode", mock.Anything, "Atlantis").Return(geo.Coordinates{}, geocode.ErrNotFound)
			},
			want:     reply.Fail(reply.CodeCoordinatesNotFound, "I could not determine the coordinates for Atlantis."),
			geocodes: 1,
		},
		{
			name: "geocoder timeout",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{"Berlin"}, nil)
				m.geocoder.On("Geocode", mock.Anything, "Berlin").Return(geo.Coordinates{}, context.DeadlineExceeded)
			},
			want:     reply.Fail(reply.CodeCoordinatesNotFound, "I could not determine the coordinates for Berlin."),
			geocodes: 1,
		},
		{
			name: "forecast status error",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{"Berlin"}, nil)
				m.geocoder.On("Geocode", mock.Anything, "Berlin").Return(berlin, nil)
				m.forecast.On("Current", mock.Anything, berlin).
					Return(forecast.Reading{}, &forecast.StatusError{StatusCode: http.StatusBadGateway})
			},
			want:     reply.Fail(reply.CodeForecastStatus, "Weather data could not be retrieved (status: 502)."),
			geocodes: 1,
			fetches:  1,
		},
		{
			name: "forecast transport error",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{"Berlin"}, nil)
				m.geocoder.On("Geocode", mock.Anything, "Berlin").Return(berlin, nil)
				m.forecast.On("Current", mock.Anything, berlin).Return(forecast.Reading{}, errors.New("connection refused"))
			},
			want:     reply.Fail(reply.CodeWeatherFailed, MsgFailed),
			geocodes: 1,
			fetches:  1,
		},
		{
			name: "forecast malformed",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{"Berlin"}, nil)
				m.geocoder.On("Geocode", mock.Anything, "Berlin").Return(berlin, nil)
				m.forecast.On("Current", mock.Anything, berlin).Return(forecast.Reading{}, forecast.ErrMalformed)
			},
			want:     reply.Fail(reply.CodeWeatherFailed, MsgFailed),
			geocodes: 1,
			fetches:  1,
		},
		{
			name: "panic in a stage",
			setup: func(m mocks) {
				m.extractor.On("ExtractPlaces", mock.Anything, utterance).Return([]string{"Berlin"}, nil)
				m.geocoder.On("Geocode", mock.Anything, "Berlin").Run(func(mock.Arguments) {
					panic("nil map")
				}).Return(berlin, nil)
			},
			want:     reply.Fail(reply.CodeWeatherFailed, MsgFailed),
			geocodes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := newResponder(availability.Ready())
			tt.setup(m)

			got := r.GetWeather(context.Background(), utterance)

			assert.Equal(t, tt.want, got)
			m.geocoder.AssertNumberOfCalls(t, "Geocode", tt.geocodes)
			m.forecast.AssertNumberOfCalls(t, "Current", tt.fetches)
		})
	}
}

func TestGetWeatherUnavailable(t *testing.T) {
	r, m := newResponder(availability.Unavailable("prose model missing"))

	got := r.GetWeather(context.Background(), "weather in Berlin")

	assert.Equal(t, reply.Fail(reply.CodeWeatherUnavailable, MsgUnavailable), got)
	m.extractor.AssertNotCalled(t, "ExtractPlaces", mock.Anything, mock.Anything)
	m.geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	m.forecast.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
}

func TestGetWeatherAppliesStageDeadline(t *testing.T) {
	r, m := newResponder(availability.Ready())
	m.extractor.On("ExtractPlaces", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "weather").Return([]string{}, nil)

	r.GetWeather(context.Background(), "weather")
	m.extractor.AssertExpectations(t)
}

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{18.0, "18.0"},
		{0, "0.0"},
		{-4, "-4.0"},
		{18.25, "18.25"},
		{-0.5, "-0.5"},
		{math.Inf(1), "+Inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTemperature(tt.in))
	}
}

func TestGetWeatherWithUnbuiltForecastClient(t *testing.T) {
	extractor := new(places.MockExtractor)
	geocoder := new(geocode.MockGeocoder)
	extractor.On("ExtractPlaces", mock.Anything, "weather in Berlin").Return([]string{"Berlin"}, nil)
	geocoder.On("Geocode", mock.Anything, "Berlin").Return(berlin, nil)
	r := NewResponder(Deps{
		Extractor: extractor,
		Geocoder:  geocoder,
		Forecast:  forecast.NewUnavailable(errors.New("forecast url required")),
		Status:    availability.Ready(),
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	got := r.GetWeather(context.Background(), "weather in Berlin")

	assert.Equal(t, reply.Fail(reply.CodeWeatherFailed, MsgFailed), got)
}
