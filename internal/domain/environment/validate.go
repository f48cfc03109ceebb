package environment

import (
	"math"

	apperrors "github.com/yanqian/greenguardian/pkg/errors"
)

const (
	msgCoordinatesRequired = "lat and lon are required numbers"
	msgCoordinatesRange    = "lat/lon out of range"
)

// ValidateCoordinates checks presence, finiteness and range of a lat/lon pair.
func ValidateCoordinates(lat, lon *float64) (Coordinates, error) {
	if lat == nil || lon == nil || !isFinite(*lat) || !isFinite(*lon) {
		return Coordinates{}, apperrors.Wrap(apperrors.CodeInvalidInput, msgCoordinatesRequired, nil)
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return Coordinates{}, apperrors.Wrap(apperrors.CodeInvalidInput, msgCoordinatesRange, nil)
	}
	return Coordinates{Lat: *lat, Lon: *lon}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
