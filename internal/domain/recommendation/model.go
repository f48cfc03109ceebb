package recommendation

import "github.com/yanqian/greenguardian/internal/domain/plant"

// Request carries the raw recommendation query. Lat/Lon are nil when not supplied as numbers.
type Request struct {
	Lat         *float64
	Lon         *float64
	Space       string
	Preferences string
}

// EnvironmentSnapshot is the resolved environment a scoring pass runs against.
type EnvironmentSnapshot struct {
	TempC         float64
	CloudinessPct float64
	AQIUS         *int
}

// ScoredResult pairs a candidate with its score.
type ScoredResult struct {
	Plant plant.Plant `json:"plant"`
	Score int         `json:"score"`
}

// Context echoes the inputs and environment values used to compute the scores.
type Context struct {
	Lat           float64     `json:"lat"`
	Lon           float64     `json:"lon"`
	Space         plant.Space `json:"space"`
	TempC         float64     `json:"tempC"`
	CloudinessPct float64     `json:"cloudinessPct"`
	AQIUS         *int        `json:"aqiUS"`
}

// Response is serialized back to API consumers.
type Response struct {
	Context Context        `json:"context"`
	Items   []ScoredResult `json:"items"`
}

// Config bounds a scoring pass.
type Config struct {
	MaxCandidates  int
	MaxResults     int
	MaxPreferences int
}
