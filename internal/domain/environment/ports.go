package environment

import "context"

// WeatherClient fetches current weather for a location.
type WeatherClient interface {
	CurrentWeather(ctx context.Context, c Coordinates) (Weather, error)
}

// AirQualityClient fetches the current air quality index for a location.
type AirQualityClient interface {
	CurrentAirQuality(ctx context.Context, c Coordinates) (AirQuality, error)
}
