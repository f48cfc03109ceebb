package ipinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/greenguardian/internal/domain/location"
	"github.com/yanqian/greenguardian/internal/infra/upstream"
)

const defaultBaseURL = "https://ipinfo.io/json"

// Client resolves IP addresses through ipinfo.io.
type Client struct {
	baseURL string
	token   string
	caller  *upstream.Caller
}

// NewClient builds an API client. The token is optional for low volume use.
func NewClient(baseURL, token string, caller *upstream.Caller) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		token:   strings.TrimSpace(token),
		caller:  caller,
	}
}

// Lookup implements location.Detector. The ip is forwarded so ipinfo resolves the client, not us.
func (c *Client) Lookup(ctx context.Context, ip string) (location.Location, error) {
	endpoint := c.baseURL
	if c.token != "" {
		endpoint += "?" + url.Values{"token": {c.token}}.Encode()
	}

	resp, err := c.caller.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if ip != "" {
			req.Header.Set("X-Forwarded-For", ip)
		}
		return req, nil
	})
	if err != nil {
		return location.Location{}, fmt.Errorf("ipinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return location.Location{}, fmt.Errorf("decode ipinfo response: %w", err)
	}
	lat, lon := parseLoc(raw.Loc)
	return location.Location{
		IP:      raw.IP,
		City:    raw.City,
		Region:  raw.Region,
		Country: raw.Country,
		Lat:     lat,
		Lon:     lon,
	}, nil
}

type apiResponse struct {
	IP      string `json:"ip"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
}

// parseLoc splits ipinfo's "lat,lon" string; unparsable halves stay nil.
func parseLoc(loc string) (*float64, *float64) {
	latStr, lonStr, _ := strings.Cut(loc, ",")
	return parseFloat(latStr), parseFloat(lonStr)
}

func parseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
