package city

import (
	"math"
	"math/rand"

	"github.com/okonma/citypulse/internal/geo"
)

// Neighborhood is a residential area agents can live in, weighted by
// population share.
type Neighborhood struct {
	Name   string         `yaml:"name"`
	Center geo.Coordinate `yaml:"center"`
	Weight float64        `yaml:"weight"`
	Radius float64        `yaml:"radius"`
}

// TokyoWards returns the default residential neighborhood table: the
// seven major wards with approximate centers and population weights.
func TokyoWards() []Neighborhood {
	return []Neighborhood{
		{Name: "Setagaya", Center: geo.Coordinate{Lat: 35.6464, Lon: 139.6533}, Weight: 0.20, Radius: 0.03},
		{Name: "Nerima", Center: geo.Coordinate{Lat: 35.7357, Lon: 139.6516}, Weight: 0.15, Radius: 0.025},
		{Name: "Ota", Center: geo.Coordinate{Lat: 35.5613, Lon: 139.7166}, Weight: 0.15, Radius: 0.025},
		{Name: "Suginami", Center: geo.Coordinate{Lat: 35.6994, Lon: 139.6364}, Weight: 0.12, Radius: 0.02},
		{Name: "Adachi", Center: geo.Coordinate{Lat: 35.7750, Lon: 139.8047}, Weight: 0.15, Radius: 0.025},
		{Name: "Koto", Center: geo.Coordinate{Lat: 35.6729, Lon: 139.8269}, Weight: 0.12, Radius: 0.02},
		{Name: "Minato", Center: geo.Coordinate{Lat: 35.6581, Lon: 139.7514}, Weight: 0.11, Radius: 0.02},
	}
}

// SampleNeighborhood picks a neighborhood by population weight. Weights
// need not sum to 1; the draw normalizes over the table. An empty table
// returns the zero Neighborhood.
func SampleNeighborhood(rng *rand.Rand, table []Neighborhood) Neighborhood {
	if len(table) == 0 {
		return Neighborhood{}
	}
	total := 0.0
	for _, n := range table {
		total += n.Weight
	}
	u := rng.Float64() * total
	acc := 0.0
	for _, n := range table {
		acc += n.Weight
		if u < acc {
			return n
		}
	}
	return table[len(table)-1]
}

// HomeIn places a home uniformly inside the neighborhood's disc. The
// sqrt on the radius draw makes the distribution uniform by area rather
// than clustered at the center.
func HomeIn(rng *rand.Rand, n Neighborhood) geo.Coordinate {
	angle := rng.Float64() * 2 * math.Pi
	r := n.Radius * math.Sqrt(rng.Float64())
	return geo.Coordinate{
		Lat: n.Center.Lat + r*math.Cos(angle),
		Lon: n.Center.Lon + r*math.Sin(angle),
	}
}
