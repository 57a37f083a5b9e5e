// City layout generation: named hub stations, noise-biased minor
// stations, and social venues clustered around them. Deterministic for
// a fixed seed.
package city

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/okonma/citypulse/internal/geo"
)

// Bounds is the city's bounding box: ((min lat, min lon), (max lat,
// max lon)).
type Bounds struct {
	Min geo.Coordinate `yaml:"min"`
	Max geo.Coordinate `yaml:"max"`
}

// Valid reports whether the box is well-formed (min strictly below max
// on both axes).
func (b Bounds) Valid() bool {
	return b.Min.Lat < b.Max.Lat && b.Min.Lon < b.Max.Lon
}

// TokyoBounds returns the default bounding box covering the 23 wards.
func TokyoBounds() Bounds {
	return Bounds{
		Min: geo.Coordinate{Lat: 35.53, Lon: 139.56},
		Max: geo.Coordinate{Lat: 35.82, Lon: 139.92},
	}
}

// GenConfig controls city layout generation.
type GenConfig struct {
	Bounds          Bounds
	StationCount    int
	StationCapacity int
	VenueCount      int
	VenueCapacity   int
}

// StationInfo describes a generated station together with its selection
// weight. Hubs carry higher weights so work-station picks skew toward
// them.
type StationInfo struct {
	ID     string
	Name   string
	Coord  geo.Coordinate
	Weight float64
}

// Layout is the generated city: the populated manager plus station and
// venue indexes used by agent bootstrap.
type Layout struct {
	Manager  *Manager
	Stations []StationInfo
	Venues   []Entry
}

// Named hub stations. The first StationCount entries of this table get
// placed before any minor stations.
var hubNames = []struct {
	name   string
	weight float64
}{
	{"Shinjuku", 10},
	{"Tokyo", 8},
	{"Shibuya", 7},
	{"Ikebukuro", 6},
	{"Shinagawa", 5},
	{"Ueno", 4},
}

// Default location parameters, from the original deployment's tuning.
const (
	stationDensity    = 0.8
	stationMultiplier = 1.2
	venueDensity      = 0.9
	venueMultiplier   = 1.5
)

// Generate lays out the city. Station positions are biased toward the
// high-density regions of a simplex noise surface: each station keeps
// the densest of several uniform candidate draws, so hubs and minor
// stations alike cluster where the synthetic city is busiest.
func Generate(cfg GenConfig, rng *rand.Rand) *Layout {
	mgr := NewManager()
	noise := opensimplex.NewNormalized(rng.Int63())

	layout := &Layout{Manager: mgr}

	for i := 0; i < cfg.StationCount; i++ {
		coord := densestCandidate(cfg.Bounds, noise, rng, 6)

		name := fmt.Sprintf("station_%d", i)
		weight := 1.0
		if i < len(hubNames) {
			name = hubNames[i].name
			weight = hubNames[i].weight
		}

		id := fmt.Sprintf("station_%d", i)
		mgr.Add(id, NewLocation(KindStation, coord, Params{
			Density:                stationDensity,
			TransmissionMultiplier: stationMultiplier,
			Capacity:               cfg.StationCapacity,
		}))
		layout.Stations = append(layout.Stations, StationInfo{
			ID:     id,
			Name:   name,
			Coord:  coord,
			Weight: weight,
		})
	}

	// Venues sit a short walk from a station: pick a station, offset by
	// a small uniform jitter.
	latSpan := cfg.Bounds.Max.Lat - cfg.Bounds.Min.Lat
	lonSpan := cfg.Bounds.Max.Lon - cfg.Bounds.Min.Lon
	for i := 0; i < cfg.VenueCount; i++ {
		base := cfg.Bounds.Min
		if len(layout.Stations) > 0 {
			base = layout.Stations[rng.Intn(len(layout.Stations))].Coord
		}
		coord := geo.Coordinate{
			Lat: base.Lat + (rng.Float64()-0.5)*latSpan*0.02,
			Lon: base.Lon + (rng.Float64()-0.5)*lonSpan*0.02,
		}

		id := fmt.Sprintf("venue_%d", i)
		loc := NewLocation(KindVenue, coord, Params{
			Density:                venueDensity,
			TransmissionMultiplier: venueMultiplier,
			Capacity:               cfg.VenueCapacity,
		})
		mgr.Add(id, loc)
		layout.Venues = append(layout.Venues, Entry{ID: id, Location: loc})
	}

	return layout
}

// densestCandidate draws tries uniform points in bounds and keeps the
// one with the highest noise density.
func densestCandidate(b Bounds, noise opensimplex.Noise, rng *rand.Rand, tries int) geo.Coordinate {
	best := geo.Coordinate{}
	bestDensity := -1.0
	for t := 0; t < tries; t++ {
		c := geo.Coordinate{
			Lat: b.Min.Lat + rng.Float64()*(b.Max.Lat-b.Min.Lat),
			Lon: b.Min.Lon + rng.Float64()*(b.Max.Lon-b.Min.Lon),
		}
		// Scale coordinates up so the noise field varies across the
		// (narrow) lat/lon box.
		d := noise.Eval2(c.Lat*40, c.Lon*40)
		if d > bestDensity {
			best = c
			bestDensity = d
		}
	}
	return best
}
