package plant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type seedRecord struct {
	Name           string     `json:"name"`
	ScientificName string     `json:"scientificName"`
	MinTempC       float64    `json:"minTempC"`
	MaxTempC       float64    `json:"maxTempC"`
	Sunlight       Sunlight   `json:"sunlight"`
	WaterNeeds     WaterNeeds `json:"waterNeeds"`
	Spaces         []Space    `json:"spaces"`
	Tags           []string   `json:"tags"`
	AirPurifying   bool       `json:"airPurifying"`
	PetFriendly    *bool      `json:"petFriendly"`
	HeightCm       *float64   `json:"heightCm"`
	SpreadCm       *float64   `json:"spreadCm"`
	ImageURL       string     `json:"imageUrl"`
}

// SeedIfEmpty loads the seed document into the store when the catalog has no plants.
func (s *service) SeedIfEmpty(ctx context.Context) (int, error) {
	if s.seed == nil {
		return 0, nil
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count plants: %w", err)
	}
	if count > 0 {
		s.logger.Info("plant catalog already populated, skipping seed", "count", count)
		return 0, nil
	}

	raw, err := s.seed.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load seed from %s: %w", s.seed.Describe(), err)
	}
	plants, err := DecodeSeed(raw)
	if err != nil {
		return 0, fmt.Errorf("decode seed from %s: %w", s.seed.Describe(), err)
	}
	for i, p := range plants {
		if _, err := s.repo.Insert(ctx, p); err != nil {
			return i, fmt.Errorf("insert seed plant %q: %w", p.Name, err)
		}
	}
	s.logger.Info("plant catalog seeded", "source", s.seed.Describe(), "inserted", len(plants))
	return len(plants), nil
}

// DecodeSeed parses and validates a JSON array of plants. petFriendly defaults to true.
func DecodeSeed(raw []byte) ([]Plant, error) {
	var records []seedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	validate := validator.New()
	plants := make([]Plant, 0, len(records))
	for i, rec := range records {
		petFriendly := true
		if rec.PetFriendly != nil {
			petFriendly = *rec.PetFriendly
		}
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}
		p := Plant{
			Name:           rec.Name,
			ScientificName: rec.ScientificName,
			MinTempC:       rec.MinTempC,
			MaxTempC:       rec.MaxTempC,
			Sunlight:       rec.Sunlight,
			WaterNeeds:     rec.WaterNeeds,
			Spaces:         rec.Spaces,
			Tags:           tags,
			AirPurifying:   rec.AirPurifying,
			PetFriendly:    petFriendly,
			HeightCm:       rec.HeightCm,
			SpreadCm:       rec.SpreadCm,
			ImageURL:       rec.ImageURL,
		}
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("seed record %d (%s): %w", i, rec.Name, err)
		}
		plants = append(plants, p)
	}
	return plants, nil
}
