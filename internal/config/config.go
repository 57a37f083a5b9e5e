// Package config loads simulation scenarios from YAML files. A
// scenario overrides only the fields it names; everything else keeps
// the engine defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okonma/citypulse/internal/agents"
	"github.com/okonma/citypulse/internal/city"
	"github.com/okonma/citypulse/internal/engine"
)

// Scenario is a partial simulation configuration. Pointer fields
// distinguish "not set" from legitimate zero values (a transmission
// rate of 0.0 is a real scenario). The same shape serves YAML files and
// the API's JSON create requests.
type Scenario struct {
	Population *int   `yaml:"population" json:"population,omitempty"`
	Seed       *int64 `yaml:"seed" json:"seed,omitempty"`
	Steps      *int   `yaml:"steps" json:"steps,omitempty"`

	Bounds *city.Bounds `yaml:"bounds" json:"bounds,omitempty"`

	TransmissionRate   *float64 `yaml:"transmission_rate" json:"transmission_rate,omitempty"`
	InitialIdeaHolders *int     `yaml:"initial_idea_holders" json:"initial_idea_holders,omitempty"`
	StationCount       *int     `yaml:"station_count" json:"station_count,omitempty"`
	StationCapacity    *int     `yaml:"station_capacity" json:"station_capacity,omitempty"`
	VenueCount         *int     `yaml:"venue_count" json:"venue_count,omitempty"`
	VenueCapacity      *int     `yaml:"venue_capacity" json:"venue_capacity,omitempty"`
	TransitRatio       *float64 `yaml:"transit_ratio" json:"transit_ratio,omitempty"`
	VenueProbability   *float64 `yaml:"venue_probability" json:"venue_probability,omitempty"`
	AvgTransfers       *float64 `yaml:"avg_transfers" json:"avg_transfers,omitempty"`
	MinTransfers       *int     `yaml:"min_transfers" json:"min_transfers,omitempty"`
	MaxTransfers       *int     `yaml:"max_transfers" json:"max_transfers,omitempty"`
	CorridorTolerance  *float64 `yaml:"corridor_tolerance" json:"corridor_tolerance,omitempty"`

	Branches *agents.BranchTable `yaml:"branches" json:"branches,omitempty"`

	Neighborhoods []city.Neighborhood `yaml:"neighborhoods" json:"neighborhoods,omitempty"`
}

// Load reads a scenario file.
func Load(path string) (Scenario, error) {
	var sc Scenario
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return sc, nil
}

// ApplyTo overlays the scenario's set fields onto cfg. Validation stays
// with engine.Config.Validate; this only copies values.
func (sc Scenario) ApplyTo(cfg *engine.Config) {
	if sc.Population != nil {
		cfg.Population = *sc.Population
	}
	if sc.Seed != nil {
		cfg.Seed = *sc.Seed
	}
	if sc.Bounds != nil {
		cfg.Bounds = *sc.Bounds
	}
	if sc.TransmissionRate != nil {
		cfg.TransmissionRate = *sc.TransmissionRate
	}
	if sc.InitialIdeaHolders != nil {
		cfg.InitialIdeaHolders = *sc.InitialIdeaHolders
	}
	if sc.StationCount != nil {
		cfg.StationCount = *sc.StationCount
	}
	if sc.StationCapacity != nil {
		cfg.StationCapacity = *sc.StationCapacity
	}
	if sc.VenueCount != nil {
		cfg.VenueCount = *sc.VenueCount
	}
	if sc.VenueCapacity != nil {
		cfg.VenueCapacity = *sc.VenueCapacity
	}
	if sc.TransitRatio != nil {
		cfg.TransitRatio = *sc.TransitRatio
	}
	if sc.VenueProbability != nil {
		cfg.VenueProbability = *sc.VenueProbability
	}
	if sc.AvgTransfers != nil {
		cfg.AvgTransfers = *sc.AvgTransfers
	}
	if sc.MinTransfers != nil {
		cfg.MinTransfers = *sc.MinTransfers
	}
	if sc.MaxTransfers != nil {
		cfg.MaxTransfers = *sc.MaxTransfers
	}
	if sc.CorridorTolerance != nil {
		cfg.CorridorTolerance = *sc.CorridorTolerance
	}
	if sc.Branches != nil {
		cfg.Branches = *sc.Branches
	}
	if sc.Neighborhoods != nil {
		cfg.Neighborhoods = sc.Neighborhoods
	}
}

// StepsOrDefault returns the scenario's step count, defaulting to one
// simulated week.
func (sc Scenario) StepsOrDefault() int {
	if sc.Steps != nil {
		return *sc.Steps
	}
	return 168
}
