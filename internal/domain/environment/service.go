package environment

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/greenguardian/pkg/errors"
)

// Service aggregates weather, air quality and soil data for a location.
type Service interface {
	Aggregate(ctx context.Context, req Request) (Snapshot, error)
}

type service struct {
	cfg     Config
	weather WeatherClient
	air     AirQualityClient
	logger  *slog.Logger
}

// NewService wires up the environment domain.
func NewService(cfg Config, weather WeatherClient, air AirQualityClient, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		weather: weather,
		air:     air,
		logger:  logger.With("component", "environment.service"),
	}
}

func (s *service) Aggregate(ctx context.Context, req Request) (Snapshot, error) {
	coords, err := ValidateCoordinates(req.Lat, req.Lon)
	if err != nil {
		return Snapshot{}, err
	}

	var (
		weather Weather
		air     AirQuality
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.weather.CurrentWeather(gctx, coords)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeUpstreamError, "weather data fetch failed", err)
		}
		weather = w
		return nil
	})
	g.Go(func() error {
		air = FetchAirQualitySoft(gctx, s.air, coords, s.logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Lat:     coords.Lat,
		Lon:     coords.Lon,
		Weather: weather,
		Air:     air,
		Soil:    s.soil(),
	}, nil
}

func (s *service) soil() Soil {
	source := strings.TrimSpace(s.cfg.SoilSource)
	if source == "" {
		return Soil{}
	}
	return Soil{Source: &source}
}

// FetchAirQualitySoft returns the current air quality, or an unknown reading when upstream fails.
func FetchAirQualitySoft(ctx context.Context, client AirQualityClient, c Coordinates, logger *slog.Logger) AirQuality {
	aq, err := client.CurrentAirQuality(ctx, c)
	if err != nil {
		logger.Warn("air quality fetch failed, continuing without aqi", "lat", c.Lat, "lon", c.Lon, "error", err)
		return AirQuality{}
	}
	return aq
}
