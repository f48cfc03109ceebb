package recommendation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/greenguardian/internal/domain/plant"
)

func TestSunlightBucket(t *testing.T) {
	cases := map[float64]plant.Sunlight{
		0:    plant.SunlightFull,
		20:   plant.SunlightFull,
		30:   plant.SunlightFull,
		30.5: plant.SunlightPartial,
		50:   plant.SunlightPartial,
		70:   plant.SunlightPartial,
		71:   plant.SunlightShade,
		85:   plant.SunlightShade,
		100:  plant.SunlightShade,
	}
	for cloud, want := range cases {
		require.Equal(t, want, SunlightBucket(cloud), "cloudiness %v", cloud)
	}
}

func TestTemperatureFit(t *testing.T) {
	p := plant.Plant{MinTempC: 15, MaxTempC: 25}
	require.Equal(t, 3, temperatureFit(p, 25))
	require.Equal(t, 3, temperatureFit(p, 15))
	require.Equal(t, 3, temperatureFit(p, 20))
	require.Equal(t, 1, temperatureFit(p, 28))
	require.Equal(t, 1, temperatureFit(p, 12))
	require.Equal(t, 0, temperatureFit(p, 28.5))
	require.Equal(t, 0, temperatureFit(p, 30))
	require.Equal(t, 0, temperatureFit(p, 11.9))
}

func TestAirQualityBonus(t *testing.T) {
	purifier := plant.Plant{AirPurifying: true}
	require.Equal(t, 0, airQualityBonus(purifier, nil))
	require.Equal(t, 0, airQualityBonus(purifier, intPtr(80)))
	require.Equal(t, 2, airQualityBonus(purifier, intPtr(81)))
	require.Equal(t, 0, airQualityBonus(plant.Plant{}, intPtr(150)))
}

func TestPreferenceBonusStacksRules(t *testing.T) {
	p := plant.Plant{AirPurifying: true, PetFriendly: true, Tags: []string{"air_purifying", "herb"}}

	require.Equal(t, 2, preferenceBonus(p, []string{"air_purifying"}))
	require.Equal(t, 1, preferenceBonus(p, []string{"pet_friendly"}))
	require.Equal(t, 2, preferenceBonus(p, []string{"herb", "herb"}))
	require.Equal(t, 0, preferenceBonus(p, []string{"Herb", "succulent"}))
	require.Equal(t, 0, preferenceBonus(plant.Plant{}, []string{"air_purifying", "pet_friendly"}))
}

func TestScoreCombinesRules(t *testing.T) {
	p := plant.Plant{
		MinTempC:     15,
		MaxTempC:     25,
		Sunlight:     plant.SunlightPartial,
		AirPurifying: true,
		PetFriendly:  true,
		Tags:         []string{"tropical"},
	}
	env := EnvironmentSnapshot{TempC: 20, CloudinessPct: 50, AQIUS: intPtr(120)}
	// 3 temp + 2 sunlight + 2 aqi + 1 pet_friendly + 1 tropical
	require.Equal(t, 9, Score(p, env, []string{"pet_friendly", "tropical"}))

	env = EnvironmentSnapshot{TempC: 40, CloudinessPct: 10}
	require.Equal(t, 0, Score(p, env, nil))
}

func TestRankFiltersSortsAndCaps(t *testing.T) {
	env := EnvironmentSnapshot{TempC: 20, CloudinessPct: 20}
	candidates := []plant.Plant{
		{ID: "zero", MinTempC: 40, MaxTempC: 50, Sunlight: plant.SunlightShade},
		{ID: "three-a", MinTempC: 10, MaxTempC: 30, Sunlight: plant.SunlightShade},
		{ID: "five", MinTempC: 10, MaxTempC: 30, Sunlight: plant.SunlightFull},
		{ID: "three-b", MinTempC: 10, MaxTempC: 30, Sunlight: plant.SunlightPartial},
		{ID: "one", MinTempC: 21, MaxTempC: 30, Sunlight: plant.SunlightShade},
	}

	got, positive := Rank(candidates, env, nil, 0)
	require.Equal(t, 4, positive)
	require.Equal(t, []string{"five", "three-a", "three-b", "one"}, ids(got))
	require.Equal(t, []int{5, 3, 3, 1}, scores(got))

	got, positive = Rank(candidates, env, nil, 2)
	require.Equal(t, 4, positive)
	require.Equal(t, []string{"five", "three-a"}, ids(got))
}

func TestRankKeepsRetrievalOrderForTies(t *testing.T) {
	env := EnvironmentSnapshot{TempC: 20, CloudinessPct: 90}
	candidates := make([]plant.Plant, 0, 30)
	for i := 0; i < 30; i++ {
		candidates = append(candidates, plant.Plant{ID: fmt.Sprintf("p%02d", i), MinTempC: 0, MaxTempC: 40})
	}

	got, _ := Rank(candidates, env, nil, 20)
	require.Len(t, got, 20)
	for i, item := range got {
		require.Equal(t, fmt.Sprintf("p%02d", i), item.Plant.ID)
	}
}

func TestRankEmptyIsNotNil(t *testing.T) {
	got, positive := Rank(nil, EnvironmentSnapshot{}, nil, 20)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Zero(t, positive)
}

func ids(items []ScoredResult) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Plant.ID)
	}
	return out
}

func scores(items []ScoredResult) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.Score)
	}
	return out
}

func intPtr(v int) *int { return &v }
