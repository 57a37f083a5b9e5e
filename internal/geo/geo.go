// Package geo provides the flat-plane coordinate math used for routing
// heuristics. Latitude/longitude are treated as plain Cartesian axes
// with no geodesic correction.
package geo

import "math"

// Coordinate is a (latitude, longitude) pair. It is a comparable value
// type: the simulation groups co-located agents by exact equality, so
// coordinates must always be copied by value from a single source and
// never recomputed along a different floating-point path.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance returns the Euclidean distance between two coordinates.
func Distance(a, b Coordinate) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// RoughlyBetween reports whether p lies roughly on the segment from a
// to b: the detour through p may exceed the direct distance by at most
// tolerance (a fraction, e.g. 0.2 for a 20% corridor). Degenerate
// endpoints (a == b) accept only p within the tolerance of a.
func RoughlyBetween(p, a, b Coordinate, tolerance float64) bool {
	direct := Distance(a, b)
	if direct == 0 {
		return Distance(p, a) <= tolerance
	}
	detour := Distance(a, p) + Distance(p, b)
	return detour <= direct*(1+tolerance)
}
