package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonma/citypulse/internal/geo"
)

func transitResident() *Resident {
	r := NewResident(1, geo.Coordinate{Lat: 35.64, Lon: 139.65}, geo.Coordinate{Lat: 35.69, Lon: 139.70})
	r.UsesTransit = true
	hs := geo.Coordinate{Lat: 35.645, Lon: 139.655}
	ws := geo.Coordinate{Lat: 35.688, Lon: 139.698}
	r.HomeStation = &hs
	r.WorkStation = &ws
	r.Waypoints = []geo.Coordinate{
		{Lat: 35.66, Lon: 139.67},
		{Lat: 35.67, Lon: 139.68},
	}
	return r
}

func TestBranchTablePick(t *testing.T) {
	table := DefaultBranchTable()

	assert.Equal(t, branchStraightHome, table.pick(0.0))
	assert.Equal(t, branchStraightHome, table.pick(0.59))
	assert.Equal(t, branchVenueThenTrain, table.pick(0.60))
	assert.Equal(t, branchVenueThenTrain, table.pick(0.89))
	assert.Equal(t, branchVenueLateTaxi, table.pick(0.90))
	assert.Equal(t, branchVenueLateTaxi, table.pick(0.979))
	assert.Equal(t, branchVenueUntilDawn, table.pick(0.981))
	assert.Equal(t, branchVenueUntilDawn, table.pick(0.999))
}

func TestBuildScheduleMorningCommute(t *testing.T) {
	r := transitResident()
	rng := rand.New(rand.NewSource(9))
	s := BuildSchedule(r, rng, DefaultBranchTable())

	require.NotEmpty(t, s)
	first := s[0]
	assert.Equal(t, ActivityHome, first.Activity)
	assert.Equal(t, 0.0, first.Start)
	assert.GreaterOrEqual(t, first.Duration, 8.0, "work start clamps at 8")
	assert.LessOrEqual(t, first.Duration, 10.0, "work start clamps at 10")

	// Transit morning: home station, one transfer per waypoint, work
	// station, then the work block.
	assert.Equal(t, ActivityHomeStation, s[1].Activity)
	assert.Equal(t, ActivityTransfer, s[2].Activity)
	assert.Equal(t, 0, s[2].WaypointIndex)
	assert.Equal(t, ActivityTransfer, s[3].Activity)
	assert.Equal(t, 1, s[3].WaypointIndex)
	assert.Equal(t, ActivityWorkStation, s[4].Activity)
	assert.Equal(t, ActivityWork, s[5].Activity)
	assert.GreaterOrEqual(t, s[5].Duration, 7.0)
	assert.LessOrEqual(t, s[5].Duration, 9.0)
}

func TestBuildScheduleNoTransit(t *testing.T) {
	r := NewResident(2, geo.Coordinate{Lat: 1, Lon: 1}, geo.Coordinate{Lat: 2, Lon: 2})
	rng := rand.New(rand.NewSource(4))
	s := BuildSchedule(r, rng, DefaultBranchTable())

	for _, e := range s {
		assert.NotEqual(t, ActivityHomeStation, e.Activity)
		assert.NotEqual(t, ActivityWorkStation, e.Activity)
		assert.NotEqual(t, ActivityTransfer, e.Activity)
	}

	// Flat 0.5h commute gap: work starts half an hour after the home
	// block ends.
	assert.Equal(t, ActivityWork, s[1].Activity)
	assert.InDelta(t, s[0].Duration+0.5, s[1].Start, 1e-9)
}

func TestBuildScheduleEveningReversesWaypoints(t *testing.T) {
	r := transitResident()
	r.VisitsVenue = false // forces the straight-home branch

	s := BuildSchedule(r, rand.New(rand.NewSource(2)), DefaultBranchTable())

	// Collect transfer indices after the work block.
	var evening []int
	seenWork := false
	for _, e := range s {
		if e.Activity == ActivityWork {
			seenWork = true
			continue
		}
		if seenWork && e.Activity == ActivityTransfer {
			evening = append(evening, e.WaypointIndex)
		}
	}
	assert.Equal(t, []int{1, 0}, evening, "evening commute traverses waypoints in reverse")
}

func TestBuildScheduleClosesDayAt24(t *testing.T) {
	r := transitResident()
	r.VisitsVenue = false

	s := BuildSchedule(r, rand.New(rand.NewSource(6)), DefaultBranchTable())

	last := s[len(s)-1]
	require.Equal(t, ActivityHome, last.Activity)
	assert.InDelta(t, 24.0, last.Start+last.Duration, 1e-9, "final home block pads the day to exactly 24h")
}

func TestBuildScheduleLateBranchesSkipReturnCommute(t *testing.T) {
	r := transitResident()
	r.VisitsVenue = true
	table := BranchTable{VenueLateTaxi: 1} // every draw lands on the taxi branch

	s := BuildSchedule(r, rand.New(rand.NewSource(8)), table)

	// Venue block then straight home; no evening station entries.
	var venueSeen bool
	seenWork := false
	for _, e := range s {
		if e.Activity == ActivityWork {
			seenWork = true
		}
		if !seenWork {
			continue
		}
		switch e.Activity {
		case ActivityVenue:
			venueSeen = true
			assert.GreaterOrEqual(t, e.Duration, 4.0)
			assert.LessOrEqual(t, e.Duration, 6.0)
		case ActivityHomeStation, ActivityWorkStation, ActivityTransfer:
			t.Fatalf("taxi branch must not contain a return commute, found %s", ActivityName(e.Activity))
		}
	}
	assert.True(t, venueSeen)

	last := s[len(s)-1]
	assert.Equal(t, ActivityHome, last.Activity)
	assert.InDelta(t, 24.0, last.Start+last.Duration, 1e-9)
}

func TestBuildScheduleDeterministic(t *testing.T) {
	table := DefaultBranchTable()
	a := BuildSchedule(transitResident(), rand.New(rand.NewSource(33)), table)
	b := BuildSchedule(transitResident(), rand.New(rand.NewSource(33)), table)
	assert.Equal(t, a, b)
}
