// Package geo holds the coordinate and region value types shared across features.
package geo

import "math"

// Coordinate is a latitude/longitude pair in decimal degrees.
// Two coordinates are equal iff both fields match exactly.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// DefaultLocation is the fallback map center used when no fix is available
// (Shinjuku, Tokyo).
var DefaultLocation = Coordinate{Latitude: 35.6896, Longitude: 139.7006}

const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between two coordinates.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Region is a circular geofence around a center point.
type Region struct {
	Center     Coordinate
	Radius     float64 // meters
	Identifier string
}

// Contains reports whether c falls inside the region.
func (r Region) Contains(c Coordinate) bool {
	return DistanceMeters(r.Center, c) <= r.Radius
}
