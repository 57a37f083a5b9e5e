// Package agents provides the resident data model: fixed daily anchor
// locations, a generated schedule, and idea-adoption state.
package agents

import (
	"math/rand"

	"github.com/okonma/citypulse/internal/geo"
)

// Resident is a simulated commuter. Anchors are assigned once at
// creation; HomeStation, WorkStation, and Venue are present only when
// the matching behavioral flag is set. All anchor coordinates are
// copied by value from the city layout so that exact-coordinate
// grouping works across agents.
type Resident struct {
	ID   int `json:"id"`

	Home        geo.Coordinate   `json:"home"`
	Work        geo.Coordinate   `json:"work"`
	HomeStation *geo.Coordinate  `json:"home_station,omitempty"`
	WorkStation *geo.Coordinate  `json:"work_station,omitempty"`
	Venue       *geo.Coordinate  `json:"venue,omitempty"`
	Waypoints   []geo.Coordinate `json:"waypoints,omitempty"`

	UsesTransit bool `json:"uses_transit"`
	VisitsVenue bool `json:"visits_venue"`

	Schedule Schedule `json:"schedule"`

	// Mutable per-tick state.
	CurrentLocation geo.Coordinate `json:"current_location"`
	CurrentActivity Activity       `json:"current_activity"`
	HasIdea         bool           `json:"has_idea"`
}

// NewResident creates a resident at home with no schedule yet.
func NewResident(id int, home, work geo.Coordinate) *Resident {
	return &Resident{
		ID:              id,
		Home:            home,
		Work:            work,
		CurrentLocation: home,
		CurrentActivity: ActivityHome,
	}
}

// GenerateSchedule builds and installs the resident's daily schedule.
// Called exactly once, at creation.
func (r *Resident) GenerateSchedule(rng *rand.Rand, table BranchTable) {
	r.Schedule = BuildSchedule(r, rng, table)
}

// Resolve maps an hour-of-day to the resident's location: the first
// schedule entry covering the hour wins, even when a later entry is
// more specific. No entry matching leaves the resident at its previous
// location, so the position is always defined. Mutates and returns
// CurrentLocation.
func (r *Resident) Resolve(hour float64) geo.Coordinate {
	for _, e := range r.Schedule {
		if hour >= e.Start && hour < e.Start+e.Duration {
			r.CurrentLocation = r.anchorFor(e)
			r.CurrentActivity = e.Activity
			break
		}
	}
	return r.CurrentLocation
}

// anchorFor maps an entry to its anchor coordinate. Transfer entries
// index Waypoints by the position stored at schedule-build time; an
// out-of-range index (including any transfer on a resident with no
// waypoints) falls back to the work station, then to work. That
// recovery is local and total: it never propagates an error.
func (r *Resident) anchorFor(e Entry) geo.Coordinate {
	switch e.Activity {
	case ActivityHome:
		return r.Home
	case ActivityWork:
		return r.Work
	case ActivityHomeStation:
		if r.HomeStation != nil {
			return *r.HomeStation
		}
		return r.Home
	case ActivityWorkStation:
		return r.workStationOrWork()
	case ActivityTransfer:
		if e.WaypointIndex >= 0 && e.WaypointIndex < len(r.Waypoints) {
			return r.Waypoints[e.WaypointIndex]
		}
		return r.workStationOrWork()
	case ActivityVenue:
		if r.Venue != nil {
			return *r.Venue
		}
		return r.Home
	default:
		return r.CurrentLocation
	}
}

func (r *Resident) workStationOrWork() geo.Coordinate {
	if r.WorkStation != nil {
		return *r.WorkStation
	}
	return r.Work
}

// Adopt flips the idea flag. Adoption is monotonic: once set it never
// reverts.
func (r *Resident) Adopt() {
	r.HasIdea = true
}
