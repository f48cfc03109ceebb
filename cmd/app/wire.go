//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/greenguardian/internal/bootstrap"
	"github.com/yanqian/greenguardian/internal/domain/environment"
	"github.com/yanqian/greenguardian/internal/domain/location"
	"github.com/yanqian/greenguardian/internal/domain/plant"
	"github.com/yanqian/greenguardian/internal/domain/recommendation"
	"github.com/yanqian/greenguardian/internal/infra/airvisual"
	"github.com/yanqian/greenguardian/internal/infra/config"
	"github.com/yanqian/greenguardian/internal/infra/ipinfo"
	"github.com/yanqian/greenguardian/internal/infra/openweather"
	httpiface "github.com/yanqian/greenguardian/internal/interface/http"
	"github.com/yanqian/greenguardian/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRecommendationConfig,
		provideEnvironmentConfig,
		providePlantConfig,
		provideWeatherClient,
		provideAirQualityClient,
		provideIPInfoClient,
		providePlantRepository,
		providePlantFinder,
		provideSeedSource,
		provideLocationCache,
		recommendation.NewService,
		environment.NewService,
		plant.NewService,
		location.NewService,
		wire.Bind(new(environment.WeatherClient), new(*openweather.Client)),
		wire.Bind(new(environment.AirQualityClient), new(*airvisual.Client)),
		wire.Bind(new(location.Detector), new(*ipinfo.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
