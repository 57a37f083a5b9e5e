package city_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonma/citypulse/internal/city"
)

func genConfig() city.GenConfig {
	return city.GenConfig{
		Bounds:          city.TokyoBounds(),
		StationCount:    10,
		StationCapacity: 1000,
		VenueCount:      4,
		VenueCapacity:   50,
	}
}

func TestGenerateLayout(t *testing.T) {
	layout := city.Generate(genConfig(), rand.New(rand.NewSource(5)))

	require.Len(t, layout.Stations, 10)
	require.Len(t, layout.Venues, 4)
	assert.Equal(t, 14, layout.Manager.Len())

	// The first stations carry the named hubs and higher weights.
	assert.Equal(t, "Shinjuku", layout.Stations[0].Name)
	assert.Greater(t, layout.Stations[0].Weight, layout.Stations[9].Weight)
	assert.Equal(t, 1.0, layout.Stations[9].Weight)

	// Stations stay inside the bounding box.
	b := genConfig().Bounds
	for _, st := range layout.Stations {
		assert.GreaterOrEqual(t, st.Coord.Lat, b.Min.Lat)
		assert.LessOrEqual(t, st.Coord.Lat, b.Max.Lat)
		assert.GreaterOrEqual(t, st.Coord.Lon, b.Min.Lon)
		assert.LessOrEqual(t, st.Coord.Lon, b.Max.Lon)
	}

	// Manager lookups resolve the generated coordinates exactly.
	for _, st := range layout.Stations {
		loc := layout.Manager.AtCoord(st.Coord)
		require.NotNil(t, loc)
		assert.Equal(t, city.KindStation, loc.Kind)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := city.Generate(genConfig(), rand.New(rand.NewSource(11)))
	b := city.Generate(genConfig(), rand.New(rand.NewSource(11)))

	require.Equal(t, len(a.Stations), len(b.Stations))
	for i := range a.Stations {
		assert.Equal(t, a.Stations[i].Coord, b.Stations[i].Coord)
	}
	for i := range a.Venues {
		assert.Equal(t, a.Venues[i].Location.Coord, b.Venues[i].Location.Coord)
	}
}

func TestBoundsValid(t *testing.T) {
	assert.True(t, city.TokyoBounds().Valid())

	inverted := city.TokyoBounds()
	inverted.Min, inverted.Max = inverted.Max, inverted.Min
	assert.False(t, inverted.Valid())
}
