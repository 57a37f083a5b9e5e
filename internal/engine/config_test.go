package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonma/citypulse/internal/city"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population", func(c *Config) { c.Population = 0 }},
		{"negative population", func(c *Config) { c.Population = -5 }},
		{"inverted bounds", func(c *Config) {
			c.Bounds = city.Bounds{Min: c.Bounds.Max, Max: c.Bounds.Min}
		}},
		{"more seeds than agents", func(c *Config) { c.InitialIdeaHolders = c.Population + 1 }},
		{"negative seeds", func(c *Config) { c.InitialIdeaHolders = -1 }},
		{"negative rate", func(c *Config) { c.TransmissionRate = -0.1 }},
		{"transit ratio above one", func(c *Config) { c.TransitRatio = 1.5 }},
		{"venue probability below zero", func(c *Config) { c.VenueProbability = -0.2 }},
		{"no stations", func(c *Config) { c.StationCount = 0 }},
		{"negative capacity", func(c *Config) { c.StationCapacity = -1 }},
		{"negative avg transfers", func(c *Config) { c.AvgTransfers = -1 }},
		{"inverted transfer range", func(c *Config) { c.MinTransfers = 3; c.MaxTransfers = 1 }},
		{"negative corridor tolerance", func(c *Config) { c.CorridorTolerance = -0.1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestNewSimulationFailsFastOnBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Population = 0

	sim, err := NewSimulation(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Nil(t, sim)
}
