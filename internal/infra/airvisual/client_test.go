package airvisual

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/greenguardian/internal/domain/environment"
	"github.com/yanqian/greenguardian/internal/infra/config"
	"github.com/yanqian/greenguardian/internal/infra/upstream"
)

func TestCurrentAirQuality(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"status":"success","data":{"current":{"pollution":{"aqius":87,"mainus":"p2"}}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", testCaller())
	aq, err := client.CurrentAirQuality(context.Background(), environment.Coordinates{Lat: -33.87, Lon: 151.21})
	require.NoError(t, err)
	require.NotNil(t, aq.AQIUS)
	require.Equal(t, 87, *aq.AQIUS)
	require.Equal(t, "-33.87", query.Get("lat"))
	require.Equal(t, "151.21", query.Get("lon"))
	require.Equal(t, "k", query.Get("key"))
}

func TestCurrentAirQualityMissingReading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", testCaller())
	aq, err := client.CurrentAirQuality(context.Background(), environment.Coordinates{})
	require.NoError(t, err)
	require.Nil(t, aq.AQIUS)
}

func TestCurrentAirQualityFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","data":{"message":"city_not_found"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", testCaller())
	_, err := client.CurrentAirQuality(context.Background(), environment.Coordinates{})
	require.Error(t, err)
}

func TestCurrentAirQualityRequiresKey(t *testing.T) {
	client := NewClient("", "", testCaller())
	_, err := client.CurrentAirQuality(context.Background(), environment.Coordinates{})
	require.ErrorIs(t, err, errMissingAPIKey)
}

func testCaller() *upstream.Caller {
	return upstream.NewCaller("airvisual-test", time.Second, config.ResilienceConfig{InitialInterval: time.Millisecond})
}
