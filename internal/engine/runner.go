// Real-time runner for serve mode: drives Step at a configurable
// interval with pause and speed control. Headless runs call Step in a
// plain loop instead.
package engine

import (
	"log/slog"
	"time"
)

// Runner advances a simulation on a wall-clock cadence.
type Runner struct {
	Sim      *Simulation
	Interval time.Duration // base interval per simulated hour
	Speed    float64       // multiplier: 1.0 = real-time, 0 = paused
	Running  bool

	// OnStep, when set, receives the post-step snapshot.
	OnStep func(State)
}

// NewRunner creates a runner with a one-second hour cadence.
func NewRunner(sim *Simulation) *Runner {
	return &Runner{
		Sim:      sim,
		Interval: time.Second,
		Speed:    1.0,
	}
}

// Run loops until Stop is called, stepping once per adjusted interval.
// Blocks; callers usually run it in a goroutine.
func (r *Runner) Run() {
	r.Running = true
	slog.Info("runner started", "tick", r.Sim.CurrentTime, "speed", r.Speed)

	for r.Running {
		if r.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		r.Sim.Step()
		if r.OnStep != nil {
			r.OnStep(r.Sim.State())
		}

		elapsed := time.Since(start)
		target := time.Duration(float64(r.Interval) / r.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("runner stopped", "tick", r.Sim.CurrentTime)
}

// Stop halts the loop after the current step.
func (r *Runner) Stop() {
	r.Running = false
}
