package domain

import (
	"errors"
	"math"
)

// EarthRadiusKM is the mean Earth radius of the spherical model used by
// Haversine.
const EarthRadiusKM = 6371.0

// ErrUnavailable is returned when a travel distance cannot be derived from
// the given coordinates.
var ErrUnavailable = errors.New("distance unavailable")

// Coordinate is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether both components are within range: latitude in
// [-90, 90], longitude in [-180, 180].
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Haversine returns the great-circle distance between two coordinates in
// kilometres on a spherical Earth.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// DistanceEstimator approximates road-travel distance by scaling the
// great-circle distance with a fixed circuity multiplier.
type DistanceEstimator struct {
	// Circuity corrects straight-line distance toward realistic road
	// distance. Must be >= 1.
	Circuity float64
}

// Estimate returns the estimated road distance in kilometres, rounded to two
// decimal places. Coordinates outside the valid range yield ErrUnavailable.
// The result is never negative and is zero only when origin equals
// destination.
func (e DistanceEstimator) Estimate(origin, destination Coordinate) (float64, error) {
	if !origin.Valid() || !destination.Valid() {
		return 0, ErrUnavailable
	}
	km := Haversine(origin, destination) * e.Circuity
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return 0, ErrUnavailable
	}
	return round2(km), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
