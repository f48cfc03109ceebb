package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUnixToUTC(t *testing.T) {
	require.Nil(t, UnixToUTC(0))
	ts := UnixToUTC(1719800000)
	require.NotNil(t, ts)
	require.Equal(t, time.UTC, ts.Location())
	require.Equal(t, int64(1719800000), ts.Unix())
}
