package location

import "context"

// Location is the approximate position of an IP address.
type Location struct {
	IP      string   `json:"ip"`
	City    string   `json:"city"`
	Region  string   `json:"region"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Detector resolves an IP address to a location. An empty ip means the caller's own address.
type Detector interface {
	Lookup(ctx context.Context, ip string) (Location, error)
}

// Cache keeps recent lookups keyed by IP.
type Cache interface {
	Get(ctx context.Context, ip string) (Location, bool, error)
	Set(ctx context.Context, ip string, loc Location) error
}
