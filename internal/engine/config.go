// Package engine owns the simulation: population bootstrap, hourly
// stepping, the transmission pass, and the externally consumed state
// snapshot.
package engine

import (
	"errors"
	"fmt"

	"github.com/okonma/citypulse/internal/agents"
	"github.com/okonma/citypulse/internal/city"
)

// ErrInvalidConfig marks configuration errors detected at bootstrap.
// Bad configuration fails fast; values are never silently clamped.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config holds everything a simulation needs. All randomness derives
// from Seed, so two simulations with identical configs produce
// identical state sequences.
type Config struct {
	Population int
	Bounds     city.Bounds
	Seed       int64

	TransmissionRate   float64
	InitialIdeaHolders int

	StationCount    int
	StationCapacity int
	VenueCount      int
	VenueCapacity   int

	TransitRatio     float64 // fraction of agents with UsesTransit
	VenueProbability float64 // fraction of agents with VisitsVenue

	AvgTransfers      float64 // Poisson mean for transfer counts
	MinTransfers      int     // realized count clamped to [Min, Max]
	MaxTransfers      int
	CorridorTolerance float64 // detour slack for waypoint candidates

	Branches agents.BranchTable

	// Neighborhoods weights home placement. Empty means uniform
	// placement inside Bounds.
	Neighborhoods []city.Neighborhood
}

// DefaultConfig returns the deployed Tokyo defaults.
func DefaultConfig() Config {
	return Config{
		Population:         1000,
		Bounds:             city.TokyoBounds(),
		Seed:               1,
		TransmissionRate:   0.1,
		InitialIdeaHolders: 1,
		StationCount:       10,
		StationCapacity:    1000,
		VenueCount:         5,
		VenueCapacity:      50,
		TransitRatio:       0.8,
		VenueProbability:   0.4,
		AvgTransfers:       1.5,
		MinTransfers:       0,
		MaxTransfers:       3,
		CorridorTolerance:  0.3,
		Branches:           agents.DefaultBranchTable(),
		Neighborhoods:      city.TokyoWards(),
	}
}

// Validate checks the config. Every returned error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Population <= 0 {
		return fmt.Errorf("%w: population must be positive, got %d", ErrInvalidConfig, c.Population)
	}
	if !c.Bounds.Valid() {
		return fmt.Errorf("%w: city bounds min must be below max", ErrInvalidConfig)
	}
	if c.InitialIdeaHolders < 0 || c.InitialIdeaHolders > c.Population {
		return fmt.Errorf("%w: initial idea holders %d outside [0, %d]",
			ErrInvalidConfig, c.InitialIdeaHolders, c.Population)
	}
	if c.TransmissionRate < 0 {
		return fmt.Errorf("%w: transmission rate must be non-negative, got %v", ErrInvalidConfig, c.TransmissionRate)
	}
	if c.TransitRatio < 0 || c.TransitRatio > 1 {
		return fmt.Errorf("%w: transit ratio %v outside [0, 1]", ErrInvalidConfig, c.TransitRatio)
	}
	if c.VenueProbability < 0 || c.VenueProbability > 1 {
		return fmt.Errorf("%w: venue probability %v outside [0, 1]", ErrInvalidConfig, c.VenueProbability)
	}
	if c.StationCount <= 0 {
		return fmt.Errorf("%w: station count must be positive, got %d", ErrInvalidConfig, c.StationCount)
	}
	if c.StationCapacity < 0 || c.VenueCapacity < 0 {
		return fmt.Errorf("%w: capacities must be non-negative", ErrInvalidConfig)
	}
	if c.AvgTransfers < 0 {
		return fmt.Errorf("%w: average transfers must be non-negative, got %v", ErrInvalidConfig, c.AvgTransfers)
	}
	if c.MinTransfers < 0 || c.MinTransfers > c.MaxTransfers {
		return fmt.Errorf("%w: transfer range [%d, %d] malformed", ErrInvalidConfig, c.MinTransfers, c.MaxTransfers)
	}
	if c.CorridorTolerance < 0 {
		return fmt.Errorf("%w: corridor tolerance must be non-negative, got %v", ErrInvalidConfig, c.CorridorTolerance)
	}
	return nil
}
