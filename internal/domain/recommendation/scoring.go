package recommendation

import (
	"math"
	"sort"

	"github.com/yanqian/greenguardian/internal/domain/plant"
)

const (
	tempFitPoints       = 3
	tempNearMissPoints  = 1
	tempNearMissDegrees = 3.0

	fullSunMaxCloudPct = 30
	partialMaxCloudPct = 70
	sunlightFitPoints  = 2

	unhealthyAQI       = 80
	unknownAQI         = 50
	airPurifyingPoints = 2

	preferencePoints = 1
	prefAirPurifying = "air_purifying"
	prefPetFriendly  = "pet_friendly"

	// Used when the weather payload omits a field.
	defaultTempC         = 22
	defaultCloudinessPct = 20
)

// SunlightBucket derives the current light level from cloud cover. Boundaries are inclusive.
func SunlightBucket(cloudinessPct float64) plant.Sunlight {
	switch {
	case cloudinessPct <= fullSunMaxCloudPct:
		return plant.SunlightFull
	case cloudinessPct <= partialMaxCloudPct:
		return plant.SunlightPartial
	default:
		return plant.SunlightShade
	}
}

func temperatureFit(p plant.Plant, tempC float64) int {
	if tempC >= p.MinTempC && tempC <= p.MaxTempC {
		return tempFitPoints
	}
	nearest := p.MaxTempC
	if tempC < p.MinTempC {
		nearest = p.MinTempC
	}
	if math.Abs(tempC-nearest) <= tempNearMissDegrees {
		return tempNearMissPoints
	}
	return 0
}

func airQualityBonus(p plant.Plant, aqiUS *int) int {
	aqi := unknownAQI
	if aqiUS != nil {
		aqi = *aqiUS
	}
	if aqi > unhealthyAQI && p.AirPurifying {
		return airPurifyingPoints
	}
	return 0
}

// preferenceBonus scores every term independently. A term may match several rules and
// repeated terms each count again.
func preferenceBonus(p plant.Plant, preferences []string) int {
	score := 0
	for _, pref := range preferences {
		if pref == prefAirPurifying && p.AirPurifying {
			score += preferencePoints
		}
		if pref == prefPetFriendly && p.PetFriendly {
			score += preferencePoints
		}
		if pref != "" && p.HasTag(pref) {
			score += preferencePoints
		}
	}
	return score
}

// Score is a pure function of the candidate, the environment and the preference terms.
func Score(p plant.Plant, env EnvironmentSnapshot, preferences []string) int {
	score := temperatureFit(p, env.TempC)
	if p.Sunlight == SunlightBucket(env.CloudinessPct) {
		score += sunlightFitPoints
	}
	score += airQualityBonus(p, env.AQIUS)
	score += preferenceBonus(p, preferences)
	return score
}

// Rank scores the candidates, keeps positive scores, orders them by score descending and
// truncates to limit. Equal scores keep retrieval order.
func Rank(candidates []plant.Plant, env EnvironmentSnapshot, preferences []string, limit int) ([]ScoredResult, int) {
	scored := make([]ScoredResult, 0, len(candidates))
	for _, p := range candidates {
		if s := Score(p, env, preferences); s > 0 {
			scored = append(scored, ScoredResult{Plant: p, Score: s})
		}
	}
	positive := len(scored)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, positive
}
