// file: internal/database/run_store.go
// version: 1.0.0
// guid: 6a4f2d80-93c1-4b7e-a5d6-1e08c7b39f24

package database

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	ulid "github.com/oklog/ulid/v2"
)

// Run states.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Placement states.
const (
	PlacementLinked     = "linked"
	PlacementLeftbehind = "leftbehind"
	PlacementFailed     = "failed"
	PlacementPlanned    = "planned"
)

// Run is one organize invocation.
type Run struct {
	ID           string    `json:"id"`
	SourcePath   string    `json:"source_path"`
	OrganizedDir string    `json:"organized_dir"`
	Strategy     string    `json:"strategy"`
	DryRun       bool      `json:"dry_run"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitempty"`
	Books        int       `json:"books"`
	Linked       int       `json:"linked"`
	Leftbehind   int       `json:"leftbehind"`
	Errors       int       `json:"errors"`
}

// PlacementRecord is one file's fate within a run.
type PlacementRecord struct {
	RunID       string `json:"run_id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// RunStore is the SQLite manifest of runs and their placements.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (or creates) the manifest database at path.
func OpenRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (s *RunStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source_path TEXT NOT NULL,
		organized_dir TEXT NOT NULL,
		strategy TEXT NOT NULL,
		dry_run INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL DEFAULT 0,
		books INTEGER NOT NULL DEFAULT 0,
		linked INTEGER NOT NULL DEFAULT 0,
		leftbehind INTEGER NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS placements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		source TEXT NOT NULL,
		destination TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_placements_run ON placements(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database
func (s *RunStore) Close() error {
	return s.db.Close()
}

func newULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// StartRun assigns run an ID, marks it running and stores it.
func (s *RunStore) StartRun(run Run) (Run, error) {
	id, err := newULID()
	if err != nil {
		return Run{}, fmt.Errorf("failed to generate run id: %w", err)
	}
	run.ID = id
	run.Status = RunRunning
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err = s.db.Exec(`INSERT INTO runs (id, source_path, organized_dir, strategy, dry_run, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourcePath, run.OrganizedDir, run.Strategy, run.DryRun, run.Status, run.StartedAt.UnixNano())
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}
	return run, nil
}

// FinishRun records the final status and counts of run.
func (s *RunStore) FinishRun(run Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	res, err := s.db.Exec(`UPDATE runs SET status = ?, finished_at = ?, books = ?, linked = ?, leftbehind = ?, errors = ?
		WHERE id = ?`,
		run.Status, run.FinishedAt.UnixNano(), run.Books, run.Linked, run.Leftbehind, run.Errors, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

// RecordPlacements appends records to their run in one transaction.
func (s *RunStore) RecordPlacements(records []PlacementRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO placements (run_id, source, destination, kind, status, error)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.RunID, r.Source, r.Destination, r.Kind, r.Status, r.Error); err != nil {
			return fmt.Errorf("failed to insert placement: %w", err)
		}
	}
	return tx.Commit()
}

const runColumns = `id, source_path, organized_dir, strategy, dry_run, status,
	started_at, finished_at, books, linked, leftbehind, errors`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var started, finished int64
	err := row.Scan(&run.ID, &run.SourcePath, &run.OrganizedDir, &run.Strategy, &run.DryRun, &run.Status,
		&started, &finished, &run.Books, &run.Linked, &run.Leftbehind, &run.Errors)
	if err != nil {
		return Run{}, err
	}
	run.StartedAt = time.Unix(0, started)
	if finished > 0 {
		run.FinishedAt = time.Unix(0, finished)
	}
	return run, nil
}

// GetRun returns the run with id, or nil when it does not exist.
func (s *RunStore) GetRun(id string) (*Run, error) {
	run, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first; limit <= 0 means all.
func (s *RunStore) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunPlacements returns the placements of runID in insertion order.
func (s *RunStore) RunPlacements(runID string) ([]PlacementRecord, error) {
	rows, err := s.db.Query(`SELECT run_id, source, destination, kind, status, error
		FROM placements WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list placements: %w", err)
	}
	defer rows.Close()

	var records []PlacementRecord
	for rows.Next() {
		var r PlacementRecord
		if err := rows.Scan(&r.RunID, &r.Source, &r.Destination, &r.Kind, &r.Status, &r.Error); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
