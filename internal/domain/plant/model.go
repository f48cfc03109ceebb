package plant

import (
	"strings"
	"time"
)

// Space is the growing environment a plant tolerates.
type Space string

const (
	SpaceIndoor  Space = "indoor"
	SpaceBalcony Space = "balcony"
	SpaceOutdoor Space = "outdoor"
)

// ParseSpace reports whether raw names one of the known spaces.
func ParseSpace(raw string) (Space, bool) {
	switch Space(raw) {
	case SpaceIndoor:
		return SpaceIndoor, true
	case SpaceBalcony:
		return SpaceBalcony, true
	case SpaceOutdoor:
		return SpaceOutdoor, true
	default:
		return "", false
	}
}

// Sunlight is the light level a plant prefers.
type Sunlight string

const (
	SunlightFull    Sunlight = "full"
	SunlightPartial Sunlight = "partial"
	SunlightShade   Sunlight = "shade"
)

// WaterNeeds is a coarse watering requirement.
type WaterNeeds string

const (
	WaterLow    WaterNeeds = "low"
	WaterMedium WaterNeeds = "medium"
	WaterHigh   WaterNeeds = "high"
)

// Plant is a catalog entry.
type Plant struct {
	ID             string     `json:"id"`
	Name           string     `json:"name" validate:"required"`
	ScientificName string     `json:"scientificName" validate:"required"`
	MinTempC       float64    `json:"minTempC"`
	MaxTempC       float64    `json:"maxTempC" validate:"gtefield=MinTempC"`
	Sunlight       Sunlight   `json:"sunlight" validate:"oneof=full partial shade"`
	WaterNeeds     WaterNeeds `json:"waterNeeds" validate:"oneof=low medium high"`
	Spaces         []Space    `json:"spaces" validate:"min=1,dive,oneof=indoor balcony outdoor"`
	Tags           []string   `json:"tags"`
	AirPurifying   bool       `json:"airPurifying"`
	PetFriendly    bool       `json:"petFriendly"`
	HeightCm       *float64   `json:"heightCm,omitempty"`
	SpreadCm       *float64   `json:"spreadCm,omitempty"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// HasSpace reports whether the plant can grow in space.
func (p Plant) HasSpace(space Space) bool {
	for _, s := range p.Spaces {
		if s == space {
			return true
		}
	}
	return false
}

// HasTag reports whether tag is one of the plant's tags. Matching is exact.
func (p Plant) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Filter narrows a catalog lookup. Zero fields do not constrain the result.
type Filter struct {
	Space Space
	Tags  []string
	Query string
}

// Matches applies the filter to a single plant. Adapters without a query engine use it directly.
func (f Filter) Matches(p Plant) bool {
	if f.Space != "" && !p.HasSpace(f.Space) {
		return false
	}
	if len(f.Tags) > 0 {
		found := false
		for _, tag := range f.Tags {
			if p.HasTag(tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.ScientificName), q) {
			return true
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}
	return true
}

// SearchRequest carries the raw catalog search parameters.
type SearchRequest struct {
	Query string `form:"query"`
	Tags  string `form:"tags"`
	Space string `form:"space"`
}

// Config holds runtime knobs for the catalog service.
type Config struct {
	SearchLimit    int
	MaxQueryLength int
	MaxTags        int
}
