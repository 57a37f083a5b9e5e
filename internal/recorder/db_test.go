package recorder_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonma/citypulse/internal/engine"
	"github.com/okonma/citypulse/internal/geo"
	"github.com/okonma/citypulse/internal/recorder"
)

func openTestDB(t *testing.T) *recorder.DB {
	t.Helper()
	db, err := recorder.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleState(tick int) engine.State {
	return engine.State{
		Time:          tick,
		InfectedCount: tick + 1,
		InfectionRate: float64(tick+1) / 10,
		AgentLocations: []engine.AgentLocation{
			{Coord: geo.Coordinate{Lat: 35.6, Lon: 139.7}, HasIdea: true},
			{Coord: geo.Coordinate{Lat: 35.7, Lon: 139.8}, HasIdea: false},
		},
	}
}

func TestRecordAndReadBack(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.CreateRun("run-1", engine.DefaultConfig()))

	// Insert out of order; States must come back sorted by tick.
	for _, tick := range []int{3, 1, 2} {
		require.NoError(t, db.RecordState("run-1", sampleState(tick)))
	}

	states, err := db.States("run-1")
	require.NoError(t, err)
	require.Len(t, states, 3)
	for i, st := range states {
		assert.Equal(t, i+1, st.Time)
		assert.Equal(t, sampleState(i+1), st)
	}
}

func TestStatesUnknownRunEmpty(t *testing.T) {
	db := openTestDB(t)

	states, err := db.States("nope")
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestRunsListing(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.CreateRun("run-a", engine.DefaultConfig()))
	require.NoError(t, db.CreateRun("run-b", engine.DefaultConfig()))

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	ids := []string{runs[0].ID, runs[1].ID}
	assert.ElementsMatch(t, []string{"run-a", "run-b"}, ids)
	assert.NotEmpty(t, runs[0].CreatedAt)
}

func TestDuplicateRunRejected(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.CreateRun("run-1", engine.DefaultConfig()))
	assert.Error(t, db.CreateRun("run-1", engine.DefaultConfig()))
}
