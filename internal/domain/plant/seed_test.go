package plant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validSeed = `[
  {"name":"Snake Plant","scientificName":"Dracaena trifasciata","minTempC":15,"maxTempC":29,
   "sunlight":"shade","waterNeeds":"low","spaces":["indoor"],"tags":["low_light"],"airPurifying":true,"petFriendly":false},
  {"name":"Basil","scientificName":"Ocimum basilicum","minTempC":18,"maxTempC":30,
   "sunlight":"full","waterNeeds":"medium","spaces":["balcony","outdoor"]}
]`

func TestDecodeSeed(t *testing.T) {
	plants, err := DecodeSeed([]byte(validSeed))
	require.NoError(t, err)
	require.Len(t, plants, 2)
	require.False(t, plants[0].PetFriendly)
	require.True(t, plants[1].PetFriendly)
	require.NotNil(t, plants[1].Tags)
	require.Equal(t, []Space{SpaceBalcony, SpaceOutdoor}, plants[1].Spaces)
}

func TestDecodeSeedRejectsInvalidRecords(t *testing.T) {
	_, err := DecodeSeed([]byte(`[{"name":"X","scientificName":"Y","minTempC":1,"maxTempC":2,"sunlight":"dim","waterNeeds":"low","spaces":["indoor"]}]`))
	require.ErrorContains(t, err, "Sunlight")

	_, err = DecodeSeed([]byte(`[{"name":"X","scientificName":"Y","minTempC":10,"maxTempC":2,"sunlight":"full","waterNeeds":"low","spaces":["indoor"]}]`))
	require.ErrorContains(t, err, "MaxTempC")

	_, err = DecodeSeed([]byte(`[{"name":"X","scientificName":"Y","minTempC":1,"maxTempC":2,"sunlight":"full","waterNeeds":"low","spaces":[]}]`))
	require.ErrorContains(t, err, "Spaces")

	_, err = DecodeSeed([]byte(`{"not":"an array"}`))
	require.Error(t, err)
}

func TestSeedIfEmptyInsertsWhenEmpty(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(Config{}, repo, &stubSeed{data: []byte(validSeed)}, newTestLogger())

	n, err := svc.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, repo.inserted, 2)
	require.Equal(t, "Snake Plant", repo.inserted[0].Name)
}

func TestSeedIfEmptySkipsPopulatedCatalog(t *testing.T) {
	repo := &stubRepo{plants: []Plant{{ID: "existing"}}}
	seed := &stubSeed{data: []byte(validSeed)}
	svc := NewService(Config{}, repo, seed, newTestLogger())

	n, err := svc.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, seed.loads)
	require.Empty(t, repo.inserted)
}

func TestSeedIfEmptyWithoutSource(t *testing.T) {
	svc := NewService(Config{}, &stubRepo{}, nil, newTestLogger())
	n, err := svc.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSeedIfEmptyLoadFailure(t *testing.T) {
	svc := NewService(Config{}, &stubRepo{}, &stubSeed{err: errors.New("no such key")}, newTestLogger())
	_, err := svc.SeedIfEmpty(context.Background())
	require.ErrorContains(t, err, "no such key")
}

type stubSeed struct {
	data  []byte
	err   error
	loads int
}

func (s *stubSeed) Load(context.Context) ([]byte, error) {
	s.loads++
	return s.data, s.err
}

func (s *stubSeed) Describe() string { return "stub" }

func TestBundledSeedIsValid(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "configs", "plants.seed.json"))
	require.NoError(t, err)

	plants, err := DecodeSeed(raw)
	require.NoError(t, err)
	require.NotEmpty(t, plants)
	for _, space := range []Space{SpaceIndoor, SpaceBalcony, SpaceOutdoor} {
		found := false
		for _, p := range plants {
			if p.HasSpace(space) {
				found = true
				break
			}
		}
		require.True(t, found, "no seed plant for %s", space)
	}
}
