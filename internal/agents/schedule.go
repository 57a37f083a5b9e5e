// Daily schedule generation. A schedule is built once at agent creation
// from a handful of stochastic draws and never regenerated.
package agents

import (
	"math/rand"
)

// Activity is the typed segment of an agent's day.
type Activity uint8

const (
	ActivityHome Activity = iota
	ActivityWork
	ActivityHomeStation
	ActivityWorkStation
	ActivityTransfer
	ActivityVenue
)

// ActivityName returns a human-readable name for an activity.
func ActivityName(a Activity) string {
	switch a {
	case ActivityHome:
		return "home"
	case ActivityWork:
		return "work"
	case ActivityHomeStation:
		return "home_station"
	case ActivityWorkStation:
		return "work_station"
	case ActivityTransfer:
		return "transfer"
	case ActivityVenue:
		return "venue"
	default:
		return "unknown"
	}
}

// Entry is one timed segment. Start is in hours and may exceed 24 for
// schedules that run past midnight; such entries simply never match and
// the resolver's last-known-location rule covers the gap. Transfer
// entries carry the waypoint index they represent, assigned when the
// schedule is built; every other activity stores -1.
type Entry struct {
	Activity      Activity `json:"activity"`
	Start         float64  `json:"start"`
	Duration      float64  `json:"duration"`
	WaypointIndex int      `json:"waypoint_index,omitempty"`
}

// Schedule is an ordered list of entries covering one 24-hour cycle.
// Entries may overlap by construction; resolution always takes the
// first match in sequence order.
type Schedule []Entry

// Segment durations for the commute legs, in hours.
const (
	stationDwell = 0.3 // time spent at the origin/destination station
	transferStop = 0.2 // time spent at each transfer waypoint
	legGap       = 0.3 // travel gap between consecutive transit legs
	walkCommute  = 0.5 // flat commute gap for non-transit agents
)

// BranchTable holds the evening-branch probabilities, applied after the
// VisitsVenue gate. The four entries must be in [0, 1]; any residual
// mass beyond their sum falls through to the dawn branch.
type BranchTable struct {
	StraightHome   float64 `yaml:"straight_home"`   // go home on the normal return commute
	VenueThenTrain float64 `yaml:"venue_then_train"` // venue for 1.5–3h, then the normal commute
	VenueLateTaxi  float64 `yaml:"venue_late_taxi"`  // venue for 4–6h, taxi straight home
	VenueUntilDawn float64 `yaml:"venue_until_dawn"` // venue ~7h, then the reverse morning commute
}

// DefaultBranchTable returns the deployed evening split.
func DefaultBranchTable() BranchTable {
	return BranchTable{
		StraightHome:   0.60,
		VenueThenTrain: 0.30,
		VenueLateTaxi:  0.08,
		VenueUntilDawn: 0.02,
	}
}

// eveningBranch identifies which evening the agent gets.
type eveningBranch uint8

const (
	branchStraightHome eveningBranch = iota
	branchVenueThenTrain
	branchVenueLateTaxi
	branchVenueUntilDawn
)

// pick maps a single uniform draw to a branch via the table's
// cumulative thresholds. Every u in [0, 1) lands on a defined branch.
func (t BranchTable) pick(u float64) eveningBranch {
	acc := t.StraightHome
	if u < acc {
		return branchStraightHome
	}
	acc += t.VenueThenTrain
	if u < acc {
		return branchVenueThenTrain
	}
	acc += t.VenueLateTaxi
	if u < acc {
		return branchVenueLateTaxi
	}
	return branchVenueUntilDawn
}

// BuildSchedule generates the agent's daily schedule. Work start is
// Normal(9, 0.5) clamped to [8, 10]; work duration is Normal(8, 0.5)
// clamped to [7, 9]. The final HOME block closes the day at exactly 24
// hours except on the late-night branches, which forgo the closing
// commute and may run past midnight.
func BuildSchedule(r *Resident, rng *rand.Rand, table BranchTable) Schedule {
	workStart := clamp(rng.NormFloat64()*0.5+9, 8, 10)
	workDur := clamp(rng.NormFloat64()*0.5+8, 7, 9)

	s := Schedule{{Activity: ActivityHome, Start: 0, Duration: workStart, WaypointIndex: -1}}
	t := workStart

	// Morning commute.
	if r.UsesTransit {
		s = append(s, Entry{Activity: ActivityHomeStation, Start: t, Duration: stationDwell, WaypointIndex: -1})
		for i := range r.Waypoints {
			t += legGap
			s = append(s, Entry{Activity: ActivityTransfer, Start: t, Duration: transferStop, WaypointIndex: i})
		}
		t += legGap
		s = append(s, Entry{Activity: ActivityWorkStation, Start: t, Duration: stationDwell, WaypointIndex: -1})
		t += stationDwell
	} else {
		t += walkCommute
	}

	s = append(s, Entry{Activity: ActivityWork, Start: t, Duration: workDur, WaypointIndex: -1})
	t += workDur

	// Evening. Non-socializers always take the normal return commute;
	// socializers branch on a single uniform draw.
	branch := branchStraightHome
	if r.VisitsVenue {
		branch = table.pick(rng.Float64())
	}

	switch branch {
	case branchStraightHome:
		s = appendReturnCommute(s, r, t)

	case branchVenueThenTrain:
		dur := 1.5 + rng.Float64()*1.5
		s = append(s, Entry{Activity: ActivityVenue, Start: t, Duration: dur, WaypointIndex: -1})
		s = appendReturnCommute(s, r, t+dur)

	case branchVenueLateTaxi:
		// Stay very late, then a taxi straight home: no return commute,
		// so the accumulated day may exceed 24 hours.
		dur := 4 + rng.Float64()*2
		s = append(s, Entry{Activity: ActivityVenue, Start: t, Duration: dur, WaypointIndex: -1})
		t += dur
		s = append(s, Entry{Activity: ActivityHome, Start: t, Duration: 24 - t, WaypointIndex: -1})

	case branchVenueUntilDawn:
		// Venue until near dawn, then the reverse of the full morning
		// commute.
		s = append(s, Entry{Activity: ActivityVenue, Start: t, Duration: 7, WaypointIndex: -1})
		s = appendReturnCommute(s, r, t+7)
	}

	return s
}

// appendReturnCommute mirrors the morning commute with the waypoints
// traversed in reverse order, then closes the day with a HOME block
// whose duration makes the schedule sum to 24 hours. When the commute
// starts late enough, that duration is non-positive and the entry never
// matches; the resolver's fallback covers those hours.
func appendReturnCommute(s Schedule, r *Resident, t float64) Schedule {
	if r.UsesTransit {
		s = append(s, Entry{Activity: ActivityWorkStation, Start: t, Duration: stationDwell, WaypointIndex: -1})
		t += stationDwell
		for i := len(r.Waypoints) - 1; i >= 0; i-- {
			s = append(s, Entry{Activity: ActivityTransfer, Start: t, Duration: transferStop, WaypointIndex: i})
			t += legGap
		}
		s = append(s, Entry{Activity: ActivityHomeStation, Start: t, Duration: stationDwell, WaypointIndex: -1})
		t += stationDwell
	} else {
		t += walkCommute
	}
	return append(s, Entry{Activity: ActivityHome, Start: t, Duration: 24 - t, WaypointIndex: -1})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
