// Command citypulse runs the commuter idea-propagation simulator,
// either headless for a fixed number of ticks or as an HTTP service.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okonma/citypulse/internal/api"
	"github.com/okonma/citypulse/internal/config"
	"github.com/okonma/citypulse/internal/engine"
	"github.com/okonma/citypulse/internal/recorder"
)

var version = "0.1.0"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "citypulse",
		Short: "Commuter idea-propagation simulator",
		Long: `citypulse models how an idea spreads through a population of
commuters moving through a simplified city, one simulated hour per tick.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newWatchCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("citypulse", version)
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		scenarioPath string
		steps        int
		seed         int64
		population   int
		rate         float64
		recordPath   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation headless for a fixed number of ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := engine.DefaultConfig()

			if scenarioPath != "" {
				sc, err := config.Load(scenarioPath)
				if err != nil {
					return err
				}
				sc.ApplyTo(&cfg)
				if !cmd.Flags().Changed("steps") {
					steps = sc.StepsOrDefault()
				}
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("population") {
				cfg.Population = population
			}
			if cmd.Flags().Changed("rate") {
				cfg.TransmissionRate = rate
			}

			sim, err := engine.NewSimulation(cfg)
			if err != nil {
				return err
			}

			var db *recorder.DB
			runID := uuid.NewString()
			if recordPath != "" {
				db, err = recorder.Open(recordPath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.CreateRun(runID, cfg); err != nil {
					return fmt.Errorf("create run: %w", err)
				}
				slog.Info("recording run", "id", runID, "path", recordPath)
			}

			for i := 0; i < steps; i++ {
				sim.Step()
				if db != nil {
					if err := db.RecordState(runID, sim.State()); err != nil {
						return fmt.Errorf("record tick %d: %w", sim.CurrentTime, err)
					}
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sim.State())
		},
	}

	cmd.Flags().StringVarP(&scenarioPath, "config", "c", "", "Scenario YAML file")
	cmd.Flags().IntVar(&steps, "steps", 168, "Number of hourly ticks to run")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&population, "population", 1000, "Number of agents")
	cmd.Flags().Float64Var(&rate, "rate", 0.1, "Base transmission rate")
	cmd.Flags().StringVar(&recordPath, "record", "", "Record per-tick states to this SQLite file")
	return cmd
}

func newWatchCmd() *cobra.Command {
	var (
		scenarioPath string
		speed        float64
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a simulation in real time, printing each tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := engine.DefaultConfig()
			if scenarioPath != "" {
				sc, err := config.Load(scenarioPath)
				if err != nil {
					return err
				}
				sc.ApplyTo(&cfg)
			}

			sim, err := engine.NewSimulation(cfg)
			if err != nil {
				return err
			}

			runner := engine.NewRunner(sim)
			runner.Speed = speed
			runner.OnStep = func(st engine.State) {
				fmt.Printf("tick %4d  day %d %02d:00  infected %d/%d (%.1f%%)\n",
					st.Time, st.Time/24, st.Time%24,
					st.InfectedCount, len(st.AgentLocations), st.InfectionRate*100)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				runner.Stop()
			}()

			runner.Run()
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenarioPath, "config", "c", "", "Scenario YAML file")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Tick speed multiplier (1.0 = one hour per second)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		port   int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve simulations over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := &api.Server{Port: port}

			if dbPath != "" {
				db, err := recorder.Open(dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
				srv.DB = db
			}

			srv.Start()
			fmt.Printf("citypulse API: http://localhost:%d/api/v1/simulations\n", port)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			slog.Info("shutting down", "signal", sig)
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Listen port")
	cmd.Flags().StringVar(&dbPath, "db", "", "Record stepped states to this SQLite file")
	return cmd
}
