package recommendation

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/greenguardian/internal/domain/environment"
	"github.com/yanqian/greenguardian/internal/domain/plant"
	apperrors "github.com/yanqian/greenguardian/pkg/errors"
	"github.com/yanqian/greenguardian/pkg/metrics"
)

const (
	defaultMaxCandidates  = 500
	defaultMaxResults     = 20
	defaultMaxPreferences = 10
)

// Service ranks catalog plants against live conditions at a location.
type Service interface {
	Recommend(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg     Config
	weather environment.WeatherClient
	air     environment.AirQualityClient
	plants  plant.Finder
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the recommendation domain.
func NewService(cfg Config, weather environment.WeatherClient, air environment.AirQualityClient, plants plant.Finder, logger *slog.Logger) Service {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = defaultMaxCandidates
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.MaxPreferences <= 0 {
		cfg.MaxPreferences = defaultMaxPreferences
	}
	return &service{
		cfg:     cfg,
		weather: weather,
		air:     air,
		plants:  plants,
		logger:  logger.With("component", "recommendation.service"),
		now:     time.Now,
	}
}

func (s *service) Recommend(ctx context.Context, req Request) (Response, error) {
	coords, err := environment.ValidateCoordinates(req.Lat, req.Lon)
	if err != nil {
		return Response{}, err
	}
	space := resolveSpace(req.Space)
	preferences := plant.SplitTerms(req.Preferences, s.cfg.MaxPreferences)

	env, err := s.fetchEnvironment(ctx, coords)
	if err != nil {
		return Response{}, err
	}

	candidates, err := s.plants.Find(ctx, plant.Filter{Space: space}, s.cfg.MaxCandidates)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeStoreError, "plant lookup failed", err)
	}
	if len(candidates) > s.cfg.MaxCandidates {
		candidates = candidates[:s.cfg.MaxCandidates]
	}

	start := s.now()
	items, positive := Rank(candidates, env, preferences, s.cfg.MaxResults)
	stats := metrics.PassStats{
		Candidates: len(candidates),
		Positive:   positive,
		Returned:   len(items),
		Duration:   s.now().Sub(start),
	}
	s.logger.Info("recommendations scored", append([]any{"space", space, "preferences", len(preferences)}, stats.LogAttrs()...)...)

	return Response{
		Context: Context{
			Lat:           coords.Lat,
			Lon:           coords.Lon,
			Space:         space,
			TempC:         env.TempC,
			CloudinessPct: env.CloudinessPct,
			AQIUS:         env.AQIUS,
		},
		Items: items,
	}, nil
}

// fetchEnvironment joins the weather and air quality fetches. Only a weather failure aborts.
func (s *service) fetchEnvironment(ctx context.Context, coords environment.Coordinates) (EnvironmentSnapshot, error) {
	var (
		weather environment.Weather
		air     environment.AirQuality
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
		air = environment.FetchAirQualitySoft(gctx, s.air, coords, s.logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return EnvironmentSnapshot{}, err
	}

	env := EnvironmentSnapshot{
		TempC:         defaultTempC,
		CloudinessPct: defaultCloudinessPct,
		AQIUS:         air.AQIUS,
	}
	if weather.TempC != nil {
		env.TempC = *weather.TempC
	}
	if weather.CloudinessPct != nil {
		env.CloudinessPct = *weather.CloudinessPct
	}
	return env, nil
}

func resolveSpace(raw string) plant.Space {
	if space, ok := plant.ParseSpace(raw); ok {
		return space
	}
	return plant.SpaceIndoor
}
