package spatial

import (
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// pathLengthRadians sums the consecutive great-circle arcs along an
// ordered sequence of lat/lon pairs, in radians.
func pathLengthRadians(lats, lons []float64) float64 {
	if len(lats) != len(lons) || len(lats) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(lats); i++ {
		p1 := s2.LatLngFromDegrees(lats[i-1], lons[i-1])
		p2 := s2.LatLngFromDegrees(lats[i], lons[i])
		total += p1.Distance(p2).Radians()
	}
	return total
}

// PathLengthMeters sums the consecutive haversine distances along an
// ordered sequence of lat/lon pairs.
func PathLengthMeters(lats, lons []float64) float64 {
	return pathLengthRadians(lats, lons) * EarthRadiusMeters
}

// PathLengthKm reports the same path length in kilometers, the unit the
// route distance metadata uses.
func PathLengthKm(lats, lons []float64) float64 {
	return pathLengthRadians(lats, lons) * EarthRadiusKm
}
