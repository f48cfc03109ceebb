package plantrepo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/greenguardian/internal/domain/plant"
)

func TestBuildFilterEmpty(t *testing.T) {
	where, args := buildFilter(plant.Filter{})
	require.Empty(t, where)
	require.Empty(t, args)
}

func TestBuildFilterAllClauses(t *testing.T) {
	where, args := buildFilter(plant.Filter{
		Space: plant.SpaceBalcony,
		Tags:  []string{"herb", "edible"},
		Query: "50%_off",
	})
	require.Equal(t,
		"$1 = ANY(spaces) AND tags && $2::text[] AND "+
			"(name ILIKE $3 OR scientific_name ILIKE $3 OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE $3))",
		where,
	)
	require.Equal(t, []any{"balcony", []string{"herb", "edible"}, `%50\%\_off%`}, args)
}
