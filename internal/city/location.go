// Package city provides the spatial model: typed locations with
// capacity-bounded occupancy, a keyed manager with spatial queries, and
// the generators that lay the city out at bootstrap.
package city

import (
	"github.com/okonma/citypulse/internal/geo"
)

// Kind categorizes a place. The kind determines its transmission
// multiplier during the interaction pass.
type Kind uint8

const (
	KindStation Kind = iota
	KindVenue
	KindHome
	KindOffice
)

// KindName returns a human-readable name for a location kind.
func KindName(k Kind) string {
	switch k {
	case KindStation:
		return "station"
	case KindVenue:
		return "venue"
	case KindHome:
		return "home"
	case KindOffice:
		return "office"
	default:
		return "unknown"
	}
}

// Params holds the transmission-relevant properties of a location.
type Params struct {
	Density                float64 `json:"density"`
	TransmissionMultiplier float64 `json:"transmission_multiplier"`
	Capacity               int     `json:"capacity"`
}

// Location is a typed point in the city with a capacity-bounded list of
// occupant agent IDs. Occupants are stored in admission order; capacity
// reductions evict from the tail (newest first).
type Location struct {
	Kind      Kind           `json:"kind"`
	Coord     geo.Coordinate `json:"coord"`
	Params    Params         `json:"params"`
	Occupants []int          `json:"occupants"`
}

// NewLocation creates a location with no occupants.
func NewLocation(kind Kind, coord geo.Coordinate, params Params) *Location {
	return &Location{Kind: kind, Coord: coord, Params: params}
}

// AddOccupant admits an agent if capacity allows. Returns false (and
// leaves the occupant list unchanged) when the location is full. A full
// location is not an error; callers must check the result.
func (l *Location) AddOccupant(agentID int) bool {
	if len(l.Occupants) >= l.Params.Capacity {
		return false
	}
	l.Occupants = append(l.Occupants, agentID)
	return true
}

// RemoveOccupant removes the first matching agent ID, if present.
func (l *Location) RemoveOccupant(agentID int) {
	for i, id := range l.Occupants {
		if id == agentID {
			l.Occupants = append(l.Occupants[:i], l.Occupants[i+1:]...)
			return
		}
	}
}

// OccupancyRatio returns occupants/capacity in [0, 1]. Zero-capacity
// locations report 0 rather than dividing by zero.
func (l *Location) OccupancyRatio() float64 {
	if l.Params.Capacity <= 0 {
		return 0
	}
	return float64(len(l.Occupants)) / float64(l.Params.Capacity)
}

// TransmissionFactor combines density, the kind multiplier, and a
// crowding bump: up to +50% at full occupancy.
func (l *Location) TransmissionFactor() float64 {
	return l.Params.Density * l.Params.TransmissionMultiplier * (1.0 + l.OccupancyRatio()*0.5)
}
