// Package history records verify runs in a local SQLite database so
// operators can see when a policy last held and what broke it.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/intel/initsearchtool/internal/verify"
)

// Run is one recorded verify invocation.
type Run struct {
	ID        string     `json:"id"`
	StartedAt string     `json:"started_at"`
	Files     []string   `json:"files"`
	Total     int        `json:"total_matches"`
	Failures  int        `json:"failures"`
	OK        bool       `json:"ok"`
	Cases     []CaseStat `json:"cases"`
}

// CaseStat is the per-case summary stored with a run.
type CaseStat struct {
	Name     string `json:"name"`
	Matches  int    `json:"matches"`
	Failures int    `json:"failures"`
}

// Store persists verify runs.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		files_json TEXT NOT NULL,
		total INTEGER NOT NULL,
		failures INTEGER NOT NULL,
		ok INTEGER NOT NULL,
		cases_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores the outcome of one verify run and returns its ID.
func (s *Store) Record(files []string, report *verify.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := Run{
		ID:        NewRunID(),
		StartedAt: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Files:     files,
		Total:     report.Total,
		Failures:  report.Failures,
		OK:        report.OK(),
	}
	for _, c := range report.Cases {
		run.Cases = append(run.Cases, CaseStat{
			Name:     c.Name,
			Matches:  c.Matches,
			Failures: len(c.Failures),
		})
	}

	filesJSON, err := json.Marshal(run.Files)
	if err != nil {
		return "", fmt.Errorf("history: marshal files: %w", err)
	}
	casesJSON, err := json.Marshal(run.Cases)
	if err != nil {
		return "", fmt.Errorf("history: marshal cases: %w", err)
	}

	okInt := 0
	if run.OK {
		okInt = 1
	}
	_, err = s.db.Exec(
		`INSERT INTO runs (id, started_at, files_json, total, failures, ok, cases_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, string(filesJSON), run.Total, run.Failures, okInt, string(casesJSON),
	)
	if err != nil {
		return "", fmt.Errorf("history: insert run: %w", err)
	}
	return run.ID, nil
}

// List returns up to limit runs, newest first.
func (s *Store) List(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, started_at, files_json, total, failures, ok, cases_json
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run       Run
			filesJSON string
			casesJSON string
			okInt     int
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &filesJSON, &run.Total, &run.Failures, &okInt, &casesJSON); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.OK = okInt != 0
		if err := json.Unmarshal([]byte(filesJSON), &run.Files); err != nil {
			return nil, fmt.Errorf("history: decode files for %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(casesJSON), &run.Cases); err != nil {
			return nil, fmt.Errorf("history: decode cases for %s: %w", run.ID, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Get returns one run by ID.
func (s *Store) Get(id string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT id, started_at, files_json, total, failures, ok, cases_json
		 FROM runs WHERE id = ?`, id)

	var (
		run       Run
		filesJSON string
		casesJSON string
		okInt     int
	)
	err := row.Scan(&run.ID, &run.StartedAt, &filesJSON, &run.Total, &run.Failures, &okInt, &casesJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history: run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("history: scan run: %w", err)
	}
	run.OK = okInt != 0
	if err := json.Unmarshal([]byte(filesJSON), &run.Files); err != nil {
		return nil, fmt.Errorf("history: decode files for %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(casesJSON), &run.Cases); err != nil {
		return nil, fmt.Errorf("history: decode cases for %s: %w", run.ID, err)
	}
	return &run, nil
}
