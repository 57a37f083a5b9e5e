package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonma/citypulse/internal/geo"
)

func anchorSet(r *Resident) map[geo.Coordinate]bool {
	set := map[geo.Coordinate]bool{r.Home: true, r.Work: true}
	if r.HomeStation != nil {
		set[*r.HomeStation] = true
	}
	if r.WorkStation != nil {
		set[*r.WorkStation] = true
	}
	if r.Venue != nil {
		set[*r.Venue] = true
	}
	for _, w := range r.Waypoints {
		set[w] = true
	}
	return set
}

// Every half hour of the day resolves to a defined coordinate, and that
// coordinate is always one of the resident's configured anchors.
func TestResolveCoversFullDay(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		r := transitResident()
		r.VisitsVenue = true
		v := geo.Coordinate{Lat: 35.68, Lon: 139.69}
		r.Venue = &v
		r.GenerateSchedule(rand.New(rand.NewSource(seed)), DefaultBranchTable())

		anchors := anchorSet(r)
		for h := 0.0; h < 24; h += 0.5 {
			got := r.Resolve(h)
			assert.True(t, anchors[got], "seed %d hour %.1f resolved off-anchor: %+v", seed, h, got)
		}
	}
}

// The resolver takes the first matching entry in sequence order, even
// when a later entry also covers the hour.
func TestResolveFirstMatchWins(t *testing.T) {
	r := transitResident()
	v := geo.Coordinate{Lat: 35.7, Lon: 139.7}
	r.Venue = &v
	r.Schedule = Schedule{
		{Activity: ActivityWork, Start: 9, Duration: 8, WaypointIndex: -1},
		{Activity: ActivityVenue, Start: 9, Duration: 1, WaypointIndex: -1},
	}

	assert.Equal(t, r.Work, r.Resolve(9.5))
}

func TestResolveNoMatchRetainsLocation(t *testing.T) {
	r := transitResident()
	r.Schedule = Schedule{
		{Activity: ActivityWork, Start: 9, Duration: 1, WaypointIndex: -1},
	}

	r.Resolve(9.5)
	require.Equal(t, r.Work, r.CurrentLocation)

	// No entry covers hour 15; the resident stays put.
	assert.Equal(t, r.Work, r.Resolve(15))
}

func TestResolveStartsAtHome(t *testing.T) {
	r := NewResident(7, geo.Coordinate{Lat: 1, Lon: 1}, geo.Coordinate{Lat: 2, Lon: 2})
	// Empty schedule: never moves, never undefined.
	assert.Equal(t, r.Home, r.Resolve(12))
}

// A TRANSFER entry on a resident with no waypoints resolves to the work
// station, or work when no station is set. Recovery is local: no panic,
// no nil.
func TestTransferFallback(t *testing.T) {
	r := transitResident()
	r.Waypoints = nil
	r.Schedule = Schedule{
		{Activity: ActivityTransfer, Start: 0, Duration: 24, WaypointIndex: 0},
	}
	assert.Equal(t, *r.WorkStation, r.Resolve(10))

	r.WorkStation = nil
	assert.Equal(t, r.Work, r.Resolve(10))
}

func TestTransferOutOfRangeIndex(t *testing.T) {
	r := transitResident()
	r.Schedule = Schedule{
		{Activity: ActivityTransfer, Start: 0, Duration: 24, WaypointIndex: 5},
	}
	assert.Equal(t, *r.WorkStation, r.Resolve(3))
}

func TestAdoptMonotonic(t *testing.T) {
	r := transitResident()
	assert.False(t, r.HasIdea)
	r.Adopt()
	assert.True(t, r.HasIdea)
	r.Adopt()
	assert.True(t, r.HasIdea)
}
