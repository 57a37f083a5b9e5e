// One-time population bootstrap: city layout, agent anchors via
// nearest-station and weighted-hub heuristics, transfer waypoints from
// the home→work corridor, and idea seeding.
package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/okonma/citypulse/internal/agents"
	"github.com/okonma/citypulse/internal/city"
	"github.com/okonma/citypulse/internal/geo"
)

func (s *Simulation) bootstrap() {
	cfg := s.Config

	s.Layout = city.Generate(city.GenConfig{
		Bounds:          cfg.Bounds,
		StationCount:    cfg.StationCount,
		StationCapacity: cfg.StationCapacity,
		VenueCount:      cfg.VenueCount,
		VenueCapacity:   cfg.VenueCapacity,
	}, s.rng)
	s.Locations = s.Layout.Manager

	s.Agents = make([]*agents.Resident, 0, cfg.Population)
	for i := 0; i < cfg.Population; i++ {
		s.Agents = append(s.Agents, s.spawnResident(i))
	}

	// Seed initial idea holders without replacement.
	for _, idx := range s.rng.Perm(len(s.Agents))[:cfg.InitialIdeaHolders] {
		s.Agents[idx].Adopt()
	}
}

func (s *Simulation) spawnResident(id int) *agents.Resident {
	cfg := s.Config

	home := s.sampleHome()
	workStation := weightedStation(s.rng, s.Layout.Stations)

	// Offices sit within walking range of the chosen work station.
	latSpan := cfg.Bounds.Max.Lat - cfg.Bounds.Min.Lat
	lonSpan := cfg.Bounds.Max.Lon - cfg.Bounds.Min.Lon
	work := geo.Coordinate{
		Lat: workStation.Coord.Lat + (s.rng.Float64()-0.5)*latSpan*0.02,
		Lon: workStation.Coord.Lon + (s.rng.Float64()-0.5)*lonSpan*0.02,
	}

	r := agents.NewResident(id, home, work)
	r.UsesTransit = s.rng.Float64() < cfg.TransitRatio
	r.VisitsVenue = s.rng.Float64() < cfg.VenueProbability

	if r.UsesTransit {
		homeStation := nearestStation(home, s.Layout.Stations)
		hs := homeStation.Coord
		ws := workStation.Coord
		r.HomeStation = &hs
		r.WorkStation = &ws
		r.Waypoints = s.pickWaypoints(homeStation, workStation)
	}

	if r.VisitsVenue && len(s.Layout.Venues) > 0 {
		v := nearestVenue(work, s.Layout.Venues)
		r.Venue = &v
	}

	r.GenerateSchedule(s.rng, cfg.Branches)
	return r
}

func (s *Simulation) sampleHome() geo.Coordinate {
	if len(s.Config.Neighborhoods) > 0 {
		ward := city.SampleNeighborhood(s.rng, s.Config.Neighborhoods)
		return city.HomeIn(s.rng, ward)
	}
	b := s.Config.Bounds
	return geo.Coordinate{
		Lat: b.Min.Lat + s.rng.Float64()*(b.Max.Lat-b.Min.Lat),
		Lon: b.Min.Lon + s.rng.Float64()*(b.Max.Lon-b.Min.Lon),
	}
}

// pickWaypoints selects the transfer stations an agent passes through:
// candidates lying roughly between the home and work stations (within
// the corridor tolerance), sorted by distance from home, then sampled
// at even spacing. The realized count is Poisson(AvgTransfers) clamped
// to the configured range and to the candidate count.
func (s *Simulation) pickWaypoints(homeSt, workSt city.StationInfo) []geo.Coordinate {
	cfg := s.Config

	var candidates []city.StationInfo
	for _, st := range s.Layout.Stations {
		if st.ID == homeSt.ID || st.ID == workSt.ID {
			continue
		}
		if geo.RoughlyBetween(st.Coord, homeSt.Coord, workSt.Coord, cfg.CorridorTolerance) {
			candidates = append(candidates, st)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return geo.Distance(homeSt.Coord, candidates[i].Coord) < geo.Distance(homeSt.Coord, candidates[j].Coord)
	})

	count := poisson(s.rng, cfg.AvgTransfers)
	if count < cfg.MinTransfers {
		count = cfg.MinTransfers
	}
	if count > cfg.MaxTransfers {
		count = cfg.MaxTransfers
	}
	if count > len(candidates) {
		count = len(candidates)
	}
	if count == 0 {
		return nil
	}

	out := make([]geo.Coordinate, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, candidates[i*len(candidates)/count].Coord)
	}
	return out
}

// weightedStation picks a station with probability proportional to its
// weight, skewing commute destinations toward the named hubs.
func weightedStation(rng *rand.Rand, stations []city.StationInfo) city.StationInfo {
	total := 0.0
	for _, st := range stations {
		total += st.Weight
	}
	u := rng.Float64() * total
	acc := 0.0
	for _, st := range stations {
		acc += st.Weight
		if u < acc {
			return st
		}
	}
	return stations[len(stations)-1]
}

func nearestStation(c geo.Coordinate, stations []city.StationInfo) city.StationInfo {
	best := stations[0]
	bestDist := geo.Distance(c, best.Coord)
	for _, st := range stations[1:] {
		if d := geo.Distance(c, st.Coord); d < bestDist {
			best = st
			bestDist = d
		}
	}
	return best
}

func nearestVenue(c geo.Coordinate, venues []city.Entry) geo.Coordinate {
	best := venues[0].Location.Coord
	bestDist := geo.Distance(c, best)
	for _, v := range venues[1:] {
		if d := geo.Distance(c, v.Location.Coord); d < bestDist {
			best = v.Location.Coord
			bestDist = d
		}
	}
	return best
}

// poisson draws a Poisson-distributed count via Knuth's method. Fine
// for the small means used for transfer counts.
func poisson(rng *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
