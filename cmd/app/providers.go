package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/greenguardian/internal/domain/environment"
	"github.com/yanqian/greenguardian/internal/domain/location"
	"github.com/yanqian/greenguardian/internal/domain/plant"
	"github.com/yanqian/greenguardian/internal/domain/recommendation"
	"github.com/yanqian/greenguardian/internal/infra/airvisual"
	"github.com/yanqian/greenguardian/internal/infra/config"
	"github.com/yanqian/greenguardian/internal/infra/ipinfo"
	"github.com/yanqian/greenguardian/internal/infra/locationcache"
	"github.com/yanqian/greenguardian/internal/infra/openweather"
	"github.com/yanqian/greenguardian/internal/infra/plantrepo"
	"github.com/yanqian/greenguardian/internal/infra/plantseed"
	"github.com/yanqian/greenguardian/internal/infra/upstream"
)

const nasaSoilSource = "NASA"

func provideRecommendationConfig(cfg *config.Config) recommendation.Config {
	return recommendation.Config{
		MaxCandidates:  cfg.Recommendation.MaxCandidates,
		MaxResults:     cfg.Recommendation.MaxResults,
		MaxPreferences: cfg.Recommendation.MaxPreferences,
	}
}

func provideEnvironmentConfig(cfg *config.Config) environment.Config {
	if strings.TrimSpace(cfg.Upstream.NASAAPIKey) == "" {
		return environment.Config{}
	}
	return environment.Config{SoilSource: nasaSoilSource}
}

func providePlantConfig(cfg *config.Config) plant.Config {
	return plant.Config{
		SearchLimit:    cfg.Catalog.Search.Limit,
		MaxQueryLength: cfg.Catalog.Search.MaxQueryLength,
		MaxTags:        cfg.Catalog.Search.MaxTags,
	}
}

func provideWeatherClient(cfg *config.Config) *openweather.Client {
	caller := upstream.NewCaller("openweather", cfg.Upstream.Timeout, cfg.Upstream.Resilience)
	return openweather.NewClient(cfg.Upstream.OpenWeather.BaseURL, cfg.Upstream.OpenWeather.APIKey, caller)
}

func provideAirQualityClient(cfg *config.Config) *airvisual.Client {
	caller := upstream.NewCaller("airvisual", cfg.Upstream.Timeout, cfg.Upstream.Resilience)
	return airvisual.NewClient(cfg.Upstream.AirVisual.BaseURL, cfg.Upstream.AirVisual.APIKey, caller)
}

func provideIPInfoClient(cfg *config.Config) *ipinfo.Client {
	caller := upstream.NewCaller("ipinfo", cfg.Upstream.Timeout, cfg.Upstream.Resilience)
	return ipinfo.NewClient(cfg.Upstream.IPInfo.BaseURL, cfg.Upstream.IPInfo.APIKey, caller)
}

func providePlantFinder(repo plant.Repository) plant.Finder {
	return repo
}

func providePlantRepository(cfg *config.Config, logger *slog.Logger) plant.Repository {
	fallback := plantrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Catalog.Postgres.DSN)
	if dsn == "" {
		logger.Info("catalog postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Catalog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Catalog.Postgres.MaxConns
	}
	if cfg.Catalog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Catalog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := plantrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("plants schema setup failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("catalog postgres repository enabled")
	return repo
}

func provideSeedSource(cfg *config.Config, logger *slog.Logger) plant.SeedSource {
	seed := cfg.Catalog.Seed
	if !seed.Enabled {
		return nil
	}
	if seed.Object.Enabled() {
		src, err := plantseed.NewObjectSource(seed.Object)
		if err == nil {
			return src
		}
		logger.Error("invalid seed object storage configuration, falling back to seed file", "error", err)
	}
	return plantseed.NewFileSource(seed.Path)
}

func provideLocationCache(cfg *config.Config, logger *slog.Logger) location.Cache {
	if cfg.Location.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return locationcache.NewMemoryCache(cfg.Location.CacheSize, cfg.Location.CacheTTL)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return locationcache.NewMemoryCache(cfg.Location.CacheSize, cfg.Location.CacheTTL)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("location valkey cache enabled", "addr", cfg.Location.Redis.Addr)
			return locationcache.NewValkeyCache(client, "greenguardian:location", cfg.Location.CacheTTL)
		}
	}
	return locationcache.NewMemoryCache(cfg.Location.CacheSize, cfg.Location.CacheTTL)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Location.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Location.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Location.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
