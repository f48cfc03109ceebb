package environment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/greenguardian/pkg/errors"
)

func TestValidateCoordinates(t *testing.T) {
	cases := []struct {
		name    string
		lat     *float64
		lon     *float64
		message string
	}{
		{name: "missing lat", lat: nil, lon: ptr(1), message: "lat and lon are required numbers"},
		{name: "missing lon", lat: ptr(1), lon: nil, message: "lat and lon are required numbers"},
		{name: "nan", lat: ptr(math.NaN()), lon: ptr(1), message: "lat and lon are required numbers"},
		{name: "inf", lat: ptr(1), lon: ptr(math.Inf(1)), message: "lat and lon are required numbers"},
		{name: "lat high", lat: ptr(91), lon: ptr(0), message: "lat/lon out of range"},
		{name: "lat low", lat: ptr(-90.5), lon: ptr(0), message: "lat/lon out of range"},
		{name: "lon high", lat: ptr(0), lon: ptr(180.01), message: "lat/lon out of range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateCoordinates(tc.lat, tc.lon)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
			require.Equal(t, tc.message, err.Error())
		})
	}

	c, err := ValidateCoordinates(ptr(-90), ptr(180))
	require.NoError(t, err)
	require.Equal(t, Coordinates{Lat: -90, Lon: 180}, c)
}

func TestAggregateSuccess(t *testing.T) {
	weather := &stubWeather{weather: Weather{TempC: ptr(21.5), CloudinessPct: ptr(40), Conditions: "Clouds"}}
	air := &stubAir{air: AirQuality{AQIUS: intPtr(42)}}
	svc := NewService(Config{SoilSource: "NASA"}, weather, air, newTestLogger())

	snap, err := svc.Aggregate(context.Background(), Request{Lat: ptr(1.3), Lon: ptr(103.8)})
	require.NoError(t, err)
	require.Equal(t, 1.3, snap.Lat)
	require.Equal(t, 103.8, snap.Lon)
	require.Equal(t, "Clouds", snap.Weather.Conditions)
	require.Equal(t, 42, *snap.Air.AQIUS)
	require.Nil(t, snap.Soil.SoilMoisture)
	require.Equal(t, "NASA", *snap.Soil.Source)
	require.Equal(t, Coordinates{Lat: 1.3, Lon: 103.8}, weather.last)
}

func TestAggregateAirQualityFailsSoft(t *testing.T) {
	svc := NewService(Config{}, &stubWeather{}, &stubAir{err: errors.New("quota")}, newTestLogger())

	snap, err := svc.Aggregate(context.Background(), Request{Lat: ptr(0), Lon: ptr(0)})
	require.NoError(t, err)
	require.Nil(t, snap.Air.AQIUS)
	require.Nil(t, snap.Soil.Source)
}

func TestAggregateWeatherFailureIsFatal(t *testing.T) {
	svc := NewService(Config{}, &stubWeather{err: errors.New("401")}, &stubAir{}, newTestLogger())

	_, err := svc.Aggregate(context.Background(), Request{Lat: ptr(0), Lon: ptr(0)})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
}

func TestAggregateInvalidSkipsFetch(t *testing.T) {
	weather := &stubWeather{}
	air := &stubAir{}
	svc := NewService(Config{}, weather, air, newTestLogger())

	_, err := svc.Aggregate(context.Background(), Request{Lat: ptr(95), Lon: ptr(0)})
	require.Error(t, err)
	require.Zero(t, weather.calls)
	require.Zero(t, air.calls)
}

type stubWeather struct {
	mu      sync.Mutex
	weather Weather
	err     error
	calls   int
	last    Coordinates
}

func (s *stubWeather) CurrentWeather(_ context.Context, c Coordinates) (Weather, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = c
	return s.weather, s.err
}

type stubAir struct {
	mu    sync.Mutex
	air   AirQuality
	err   error
	calls int
}

func (s *stubAir) CurrentAirQuality(_ context.Context, _ Coordinates) (AirQuality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.air, s.err
}

func ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
