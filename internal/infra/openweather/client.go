package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/greenguardian/internal/domain/environment"
	"github.com/yanqian/greenguardian/internal/infra/upstream"
	"github.com/yanqian/greenguardian/pkg/util"
)

const (
	defaultBaseURL    = "https://api.openweathermap.org/data/2.5/weather"
	defaultConditions = "Clear"
)

var errMissingAPIKey = errors.New("openweather api key not configured")

// Client fetches current weather from OpenWeatherMap.
type Client struct {
	baseURL string
	apiKey  string
	caller  *upstream.Caller
}

// NewClient builds an API client.
func NewClient(baseURL, apiKey string, caller *upstream.Caller) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		caller:  caller,
	}
}

// CurrentWeather returns the metric weather reading for the coordinates.
func (c *Client) CurrentWeather(ctx context.Context, coords environment.Coordinates) (environment.Weather, error) {
	if c.apiKey == "" {
		return environment.Weather{}, errMissingAPIKey
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	endpoint := c.baseURL + "?" + query.Encode()

	resp, err := c.caller.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return environment.Weather{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return environment.Weather{}, fmt.Errorf("decode weather response: %w", err)
	}
	return raw.toWeather(), nil
}

type apiResponse struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Clouds struct {
		All *float64 `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

func (r apiResponse) toWeather() environment.Weather {
	conditions := defaultConditions
	if len(r.Weather) > 0 && r.Weather[0].Main != "" {
		conditions = r.Weather[0].Main
	}
	return environment.Weather{
		TempC:         r.Main.Temp,
		Humidity:      r.Main.Humidity,
		CloudinessPct: r.Clouds.All,
		Conditions:    conditions,
		Sunrise:       util.UnixToUTC(r.Sys.Sunrise),
		Sunset:        util.UnixToUTC(r.Sys.Sunset),
	}
}
