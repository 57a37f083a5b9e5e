// Package recorder persists per-tick state snapshots to SQLite for the
// rendering/serving layer. The simulation core never touches it: live
// state stays in memory, and any recorded frame can be rebuilt from its
// State row alone.
package recorder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okonma/citypulse/internal/engine"
)

// DB wraps a SQLite connection for run recording.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS states (
		run_id TEXT NOT NULL,
		time INTEGER NOT NULL,
		infected_count INTEGER NOT NULL,
		infection_rate REAL NOT NULL,
		locations_json TEXT NOT NULL,
		PRIMARY KEY (run_id, time)
	);

	CREATE INDEX IF NOT EXISTS idx_states_run ON states(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunInfo describes a recorded run.
type RunInfo struct {
	ID        string `db:"id" json:"id"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// CreateRun registers a run with its full configuration.
func (db *DB) CreateRun(id string, cfg engine.Config) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT INTO runs (id, created_at, config_json) VALUES (?, ?, ?)",
		id, time.Now().UTC().Format(time.RFC3339), string(cfgJSON),
	)
	return err
}

// RecordState appends one tick's snapshot to a run.
func (db *DB) RecordState(runID string, st engine.State) error {
	locJSON, err := json.Marshal(st.AgentLocations)
	if err != nil {
		return fmt.Errorf("marshal locations: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT INTO states (run_id, time, infected_count, infection_rate, locations_json)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, st.Time, st.InfectedCount, st.InfectionRate, string(locJSON),
	)
	return err
}

// States returns a run's snapshots in tick order.
func (db *DB) States(runID string) ([]engine.State, error) {
	rows, err := db.conn.Queryx(
		`SELECT time, infected_count, infection_rate, locations_json
		 FROM states WHERE run_id = ? ORDER BY time`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.State
	for rows.Next() {
		var st engine.State
		var locJSON string
		if err := rows.Scan(&st.Time, &st.InfectedCount, &st.InfectionRate, &locJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(locJSON), &st.AgentLocations); err != nil {
			return nil, fmt.Errorf("unmarshal locations for tick %d: %w", st.Time, err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Runs lists recorded runs, newest first.
func (db *DB) Runs() ([]RunInfo, error) {
	var runs []RunInfo
	err := db.conn.Select(&runs, "SELECT id, created_at FROM runs ORDER BY created_at DESC")
	return runs, err
}
