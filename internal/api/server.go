// Package api serves simulations over HTTP. It is a consumer of the
// engine's state snapshots: create a run from parameters, advance it,
// read its state. The core never learns about JSON or sockets.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okonma/citypulse/internal/config"
	"github.com/okonma/citypulse/internal/engine"
	"github.com/okonma/citypulse/internal/recorder"
)

// Server hosts simulation runs keyed by UUID.
type Server struct {
	Port int
	DB   *recorder.DB // optional: record stepped states when set

	mu   sync.Mutex
	runs map[string]*run
}

type run struct {
	sim       *engine.Simulation
	createdAt time.Time
}

// Handler builds the route table. Exposed so tests can serve it with
// httptest.
func (s *Server) Handler() http.Handler {
	if s.runs == nil {
		s.runs = make(map[string]*run)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/simulations", s.handleSimulations)
	mux.HandleFunc("/api/v1/simulations/", s.handleSimulationRoutes)
	return corsMiddleware(mux)
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	handler := s.Handler()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "recording", s.DB != nil)

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleSimulations dispatches the collection endpoint: POST creates a
// run, GET lists them.
func (s *Server) handleSimulations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreate(w, r)
	case http.MethodGet:
		s.handleList(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var sc config.Scenario
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
			writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
			return
		}
	}

	cfg := engine.DefaultConfig()
	sc.ApplyTo(&cfg)

	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.runs[id] = &run{sim: sim, createdAt: time.Now()}
	s.mu.Unlock()

	if s.DB != nil {
		if err := s.DB.CreateRun(id, cfg); err != nil {
			slog.Error("record run failed", "id", id, "error", err)
		}
	}

	slog.Info("simulation created", "id", id, "population", cfg.Population, "seed", cfg.Seed)
	writeJSON(w, map[string]any{"id": id, "state": sim.State()})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		Time      int       `json:"time"`
	}
	s.mu.Lock()
	out := make([]entry, 0, len(s.runs))
	for id, rn := range s.runs {
		out = append(out, entry{ID: id, CreatedAt: rn.createdAt, Time: rn.sim.CurrentTime})
	}
	s.mu.Unlock()
	writeJSON(w, out)
}

// handleSimulationRoutes dispatches per-run endpoints:
//
//	POST   /api/v1/simulations/{id}/step?n=24
//	GET    /api/v1/simulations/{id}/state
//	GET    /api/v1/simulations/{id}/stats
//	DELETE /api/v1/simulations/{id}
func (s *Server) handleSimulationRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/simulations/")
	id, action, _ := strings.Cut(path, "/")

	s.mu.Lock()
	rn := s.runs[id]
	s.mu.Unlock()
	if rn == nil {
		writeError(w, http.StatusNotFound, "unknown simulation "+id)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodDelete:
		s.mu.Lock()
		delete(s.runs, id)
		s.mu.Unlock()
		writeJSON(w, map[string]string{"status": "deleted"})

	case action == "step" && r.Method == http.MethodPost:
		n := 1
		if q := r.URL.Query().Get("n"); q != "" {
			parsed, err := strconv.Atoi(q)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, "n must be a positive integer")
				return
			}
			n = parsed
		}
		s.mu.Lock()
		for i := 0; i < n; i++ {
			rn.sim.Step()
			if s.DB != nil {
				if err := s.DB.RecordState(id, rn.sim.State()); err != nil {
					slog.Error("record state failed", "id", id, "error", err)
				}
			}
		}
		st := rn.sim.State()
		s.mu.Unlock()
		writeJSON(w, st)

	case action == "state" && r.Method == http.MethodGet:
		s.mu.Lock()
		st := rn.sim.State()
		s.mu.Unlock()
		writeJSON(w, st)

	case action == "stats" && r.Method == http.MethodGet:
		s.mu.Lock()
		stats := rn.sim.Locations.OccupancyStats()
		s.mu.Unlock()
		writeJSON(w, stats)

	default:
		writeError(w, http.StatusNotFound, "unknown endpoint")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
