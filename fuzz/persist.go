package fuzz

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound indicates the requested run doesn't exist.
var ErrRunNotFound = errors.New("run not found")

// ---------------------------------------------------------------------------
// Persistence: SQLite storage for fuzz reports
// ---------------------------------------------------------------------------

// Store handles SQLite storage for fuzz runs and their trials.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewStore opens (creating if needed) a report database at the given path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		contract TEXT NOT NULL,
		seed INTEGER NOT NULL,
		budget INTEGER NOT NULL,
		shortfall INTEGER NOT NULL,
		started TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS trials (
		run_id TEXT NOT NULL REFERENCES runs(id),
		idx INTEGER NOT NULL,
		class INTEGER NOT NULL,
		inputs JSON NOT NULL,
		detail TEXT NOT NULL,
		PRIMARY KEY (run_id, idx)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating trials table: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport writes a complete report in one transaction.
func (s *Store) SaveReport(r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, contract, seed, budget, shortfall, started)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Contract, r.Seed, r.Budget, r.Shortfall, r.Started.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", r.RunID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO trials (run_id, idx, class, inputs, detail)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing trial insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range r.Trials {
		inputs, err := json.Marshal(t.Inputs)
		if err != nil {
			return fmt.Errorf("encoding inputs for trial %d: %w", t.Index, err)
		}
		if _, err := stmt.Exec(r.RunID, t.Index, int(t.Class), string(inputs), t.Detail); err != nil {
			return fmt.Errorf("inserting trial %d: %w", t.Index, err)
		}
	}

	return tx.Commit()
}

// LoadReport reads a report back by run id.
func (s *Store) LoadReport(runID string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Report{RunID: runID}
	var started string
	err := s.db.QueryRow(`SELECT contract, seed, budget, shortfall, started
		FROM runs WHERE id = ?`, runID).
		Scan(&r.Contract, &r.Seed, &r.Budget, &r.Shortfall, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	if r.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}

	rows, err := s.db.Query(`SELECT idx, class, inputs, detail
		FROM trials WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading trials for %s: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t Trial
		var class int
		var inputs string
		if err := rows.Scan(&t.Index, &class, &inputs, &t.Detail); err != nil {
			return nil, fmt.Errorf("scanning trial: %w", err)
		}
		t.Class = Class(class)
		if err := json.Unmarshal([]byte(inputs), &t.Inputs); err != nil {
			return nil, fmt.Errorf("decoding inputs for trial %d: %w", t.Index, err)
		}
		r.Trials = append(r.Trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading trials for %s: %w", runID, err)
	}

	return r, nil
}

// ListRuns returns the ids of all stored runs for a contract, most recent
// first. An empty contract name lists every run.
func (s *Store) ListRuns(contractName string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id FROM runs ORDER BY started DESC`
	args := []interface{}{}
	if contractName != "" {
		query = `SELECT id FROM runs WHERE contract = ? ORDER BY started DESC`
		args = append(args, contractName)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
