package engine

import (
	"log/slog"
	"math/rand"

	"github.com/okonma/citypulse/internal/agents"
	"github.com/okonma/citypulse/internal/city"
	"github.com/okonma/citypulse/internal/geo"
)

// Simulation holds the complete city state and advances it one hour per
// step. CurrentTime counts hours since start and never wraps; callers
// derive hour-of-day with % 24 and the day index with / 24.
type Simulation struct {
	Config    Config
	Locations *city.Manager
	Layout    *city.Layout
	Agents    []*agents.Resident // insertion order = ID order

	CurrentTime int

	rng *rand.Rand
}

// AgentLocation is one agent's position and idea state in a snapshot.
type AgentLocation struct {
	Coord   geo.Coordinate `json:"coord"`
	HasIdea bool           `json:"has_idea"`
}

// State is the per-tick snapshot consumed by external layers (serving,
// rendering). Any frame can be reproduced from this value alone.
type State struct {
	Time           int             `json:"time"`
	InfectedCount  int             `json:"infected_count"`
	AgentLocations []AgentLocation `json:"agent_locations"`
	InfectionRate  float64         `json:"infection_rate"`
}

// NewSimulation validates the config and bootstraps the city and the
// population. Bootstrap order matters and is not re-entrant: locations,
// then agents (each generating its schedule immediately), then idea
// seeding.
func NewSimulation(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		Config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
	s.bootstrap()

	slog.Info("simulation ready",
		"population", len(s.Agents),
		"stations", len(s.Layout.Stations),
		"venues", len(s.Layout.Venues),
		"seed", cfg.Seed,
	)
	return s, nil
}

// Step advances the simulation by one hour: every agent resolves its
// location for the current hour-of-day, location occupancy is rebuilt,
// and the transmission pass runs over co-located groups.
func (s *Simulation) Step() {
	s.CurrentTime++
	hour := float64(s.CurrentTime % 24)

	for _, a := range s.Agents {
		a.Resolve(hour)
	}

	s.syncOccupancy()
	s.transmit()

	if s.CurrentTime%24 == 0 {
		st := s.State()
		slog.Info("daily summary",
			"day", s.CurrentTime/24,
			"infected", st.InfectedCount,
			"rate", st.InfectionRate,
		)
	}
}

// State returns the current snapshot. Pure read; agent entries follow
// ID order.
func (s *Simulation) State() State {
	locs := make([]AgentLocation, len(s.Agents))
	infected := 0
	for i, a := range s.Agents {
		locs[i] = AgentLocation{Coord: a.CurrentLocation, HasIdea: a.HasIdea}
		if a.HasIdea {
			infected++
		}
	}
	return State{
		Time:           s.CurrentTime,
		InfectedCount:  infected,
		AgentLocations: locs,
		InfectionRate:  float64(infected) / float64(len(s.Agents)),
	}
}

// syncOccupancy rebuilds managed-location occupancy from agent
// positions. Only stations and venues are managed; a full location
// simply stops recording (AddOccupant returning false is not an error).
func (s *Simulation) syncOccupancy() {
	s.Locations.ClearOccupants()
	for _, a := range s.Agents {
		switch a.CurrentActivity {
		case agents.ActivityHomeStation, agents.ActivityWorkStation,
			agents.ActivityTransfer, agents.ActivityVenue:
			if loc := s.Locations.AtCoord(a.CurrentLocation); loc != nil {
				loc.AddOccupant(a.ID)
			}
		}
	}
}

// activityRateFactor gives the location-kind multiplier on the base
// transmission rate.
func activityRateFactor(a agents.Activity) float64 {
	switch a {
	case agents.ActivityWork:
		return 0.2
	case agents.ActivityVenue:
		return 5.0
	case agents.ActivityHomeStation, agents.ActivityWorkStation, agents.ActivityTransfer:
		return 2.0
	case agents.ActivityHome:
		return 0.1
	default:
		return 1.0
	}
}

// transmit runs the interaction pass. Agents are partitioned by exact
// coordinate equality; within each group every start-of-tick idea
// holder runs one Bernoulli trial against each non-holder. Agents that
// adopt mid-pass do not propagate until the next tick: holder status is
// snapshotted before any trial runs. Group iteration follows first-seen
// (agent ID) order so runs are reproducible under a fixed seed.
func (s *Simulation) transmit() {
	holder := make([]bool, len(s.Agents))
	for i, a := range s.Agents {
		holder[i] = a.HasIdea
	}

	groups := make(map[geo.Coordinate][]int)
	var keys []geo.Coordinate
	for i, a := range s.Agents {
		c := a.CurrentLocation
		if _, seen := groups[c]; !seen {
			keys = append(keys, c)
		}
		groups[c] = append(groups[c], i)
	}

	for _, c := range keys {
		group := groups[c]
		if len(group) < 2 {
			continue
		}

		// Exact-coordinate co-location means the whole group shares one
		// anchor; the first member's activity is the group's kind.
		factor := activityRateFactor(s.Agents[group[0]].CurrentActivity)
		crowd := float64(len(group)) / 10
		if crowd > 2 {
			crowd = 2
		}
		rate := s.Config.TransmissionRate * factor * crowd
		if rate > 1 {
			rate = 1
		}
		if rate <= 0 {
			continue
		}

		for _, ai := range group {
			if !holder[ai] {
				continue
			}
			for _, bi := range group {
				b := s.Agents[bi]
				if bi == ai || b.HasIdea {
					continue
				}
				if s.rng.Float64() < rate {
					b.Adopt()
				}
			}
		}
	}
}
