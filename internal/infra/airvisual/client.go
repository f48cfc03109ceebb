package airvisual

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
)

const defaultBaseURL = "https://api.airvisual.com/v2/nearest_city"

var errMissingAPIKey = errors.New("airvisual api key not configured")

// Client reads the nearest-city US AQI from IQAir AirVisual.
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

// CurrentAirQuality returns the AQI of the city nearest to the coordinates.
func (c *Client) CurrentAirQuality(ctx context.Context, coords environment.Coordinates) (environment.AirQuality, error) {
	if c.apiKey == "" {
		return environment.AirQuality{}, errMissingAPIKey
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("key", c.apiKey)
	endpoint := c.baseURL + "?" + query.Encode()

	resp, err := c.caller.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return environment.AirQuality{}, fmt.Errorf("air quality request failed: %w", err)
	}
	defer resp.Body.Close()

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return environment.AirQuality{}, fmt.Errorf("decode air quality response: %w", err)
	}
	if raw.Status != "" && raw.Status != "success" {
		return environment.AirQuality{}, fmt.Errorf("airvisual api error: %s", raw.Status)
	}
	return environment.AirQuality{AQIUS: raw.Data.Current.Pollution.AQIUS}, nil
}

type apiResponse struct {
	Status string `json:"status"`
	Data   struct {
		Current struct {
			Pollution struct {
				AQIUS *int `json:"aqius"`
			} `json:"pollution"`
		} `json:"current"`
	} `json:"data"`
}
