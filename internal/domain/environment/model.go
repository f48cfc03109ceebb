package environment

import "time"

// Coordinates is a validated latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Weather is the current weather at a location. Numeric fields are nil when upstream omits them.
type Weather struct {
	TempC         *float64   `json:"tempC"`
	Humidity      *float64   `json:"humidity"`
	CloudinessPct *float64   `json:"cloudinessPct"`
	Conditions    string     `json:"conditions"`
	Sunrise       *time.Time `json:"sunrise"`
	Sunset        *time.Time `json:"sunset"`
}

// AirQuality holds the US AQI reading, nil when unknown.
type AirQuality struct {
	AQIUS *int `json:"aqiUS"`
}

// Soil is reserved for soil moisture readings.
type Soil struct {
	SoilMoisture *float64 `json:"soilMoisture"`
	Source       *string  `json:"source"`
}

// Request carries raw coordinates. Nil means the caller did not supply a number.
type Request struct {
	Lat *float64
	Lon *float64
}

// Snapshot is the aggregated environment served by /api/environment.
type Snapshot struct {
	Lat     float64    `json:"lat"`
	Lon     float64    `json:"lon"`
	Weather Weather    `json:"weather"`
	Air     AirQuality `json:"air"`
	Soil    Soil       `json:"soil"`
}

// Config wires runtime options for the environment domain.
type Config struct {
	// SoilSource names the soil data provider; empty when none is configured.
	SoilSource string
}
