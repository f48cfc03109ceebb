package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPassStats(t *testing.T) {
	s := PassStats{Candidates: 40, Positive: 25, Returned: 20, Duration: 1500 * time.Microsecond}
	require.Equal(t, []any{"candidates", 40, "positive", 25, "returned", 20, "truncated", true, "duration_ms", int64(1)}, s.LogAttrs())
	require.Equal(t, false, PassStats{Positive: 3, Returned: 3}.LogAttrs()[7])
}
