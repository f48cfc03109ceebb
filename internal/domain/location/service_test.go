package location

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/greenguardian/pkg/errors"
)

func TestDetectCachesByIP(t *testing.T) {
	lat, lon := 1.29, 103.85
	detector := &stubDetector{loc: Location{IP: "203.0.113.7", City: "Singapore", Country: "SG", Lat: &lat, Lon: &lon}}
	cache := newMapCache()
	svc := NewService(detector, cache, newTestLogger())

	first, err := svc.Detect(context.Background(), " 203.0.113.7 ")
	require.NoError(t, err)
	second, err := svc.Detect(context.Background(), "203.0.113.7")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, "Singapore", second.City)
	require.Equal(t, 1, detector.calls)
	require.Equal(t, []string{"203.0.113.7"}, detector.ips)
}

func TestDetectSkipsCacheWithoutIP(t *testing.T) {
	detector := &stubDetector{loc: Location{IP: "198.51.100.1"}}
	cache := newMapCache()
	svc := NewService(detector, cache, newTestLogger())

	_, err := svc.Detect(context.Background(), "")
	require.NoError(t, err)
	_, err = svc.Detect(context.Background(), "")
	require.NoError(t, err)

	require.Equal(t, 2, detector.calls)
	require.Empty(t, cache.items)
}

func TestDetectWrapsUpstreamFailure(t *testing.T) {
	detector := &stubDetector{err: errors.New("403 forbidden")}
	svc := NewService(detector, newMapCache(), newTestLogger())

	_, err := svc.Detect(context.Background(), "203.0.113.7")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
	require.Equal(t, "location detection failed", apperrors.MessageOf(err))
}

func TestDetectIgnoresCacheErrors(t *testing.T) {
	detector := &stubDetector{loc: Location{City: "Berlin"}}
	cache := newMapCache()
	cache.err = errors.New("connection reset")
	svc := NewService(detector, cache, newTestLogger())

	loc, err := svc.Detect(context.Background(), "192.0.2.10")
	require.NoError(t, err)
	require.Equal(t, "Berlin", loc.City)
}

func TestDetectWithoutCache(t *testing.T) {
	detector := &stubDetector{loc: Location{City: "Oslo"}}
	svc := NewService(detector, nil, newTestLogger())

	loc, err := svc.Detect(context.Background(), "192.0.2.10")
	require.NoError(t, err)
	require.Equal(t, "Oslo", loc.City)
}

type stubDetector struct {
	loc   Location
	err   error
	calls int
	ips   []string
}

func (s *stubDetector) Lookup(_ context.Context, ip string) (Location, error) {
	s.calls++
	s.ips = append(s.ips, ip)
	return s.loc, s.err
}

type mapCache struct {
	items map[string]Location
	err   error
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]Location)}
}

func (m *mapCache) Get(_ context.Context, ip string) (Location, bool, error) {
	if m.err != nil {
		return Location{}, false, m.err
	}
	loc, ok := m.items[ip]
	return loc, ok, nil
}

func (m *mapCache) Set(_ context.Context, ip string, loc Location) error {
	if m.err != nil {
		return m.err
	}
	m.items[ip] = loc
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
