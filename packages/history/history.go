// Package history keeps past probe runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	scenario    TEXT NOT NULL,
	base_url    TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	error       TEXT
);
CREATE TABLE IF NOT EXISTS records (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	name        TEXT NOT NULL,
	method      TEXT NOT NULL,
	path        TEXT NOT NULL,
	status      INTEGER NOT NULL,
	body        BLOB,
	duration_ms REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`

// ErrRunNotFound is returned by Records for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored run.
type Run struct {
	ID        string
	Scenario  string
	BaseURL   string
	StartedAt time.Time
	Duration  time.Duration
	Error     string
	Requests  int
}

// Store is a history database.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens or creates the database at location, which is a file path or
// a sqlite:// / sqlite: connection string.
func Open(location string) (*Store, error) {
	dsn := parseLocation(location)
	if dsn == "" {
		return nil, fmt.Errorf("empty history location")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// go-sqlite3 connections do not share :memory: databases
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare history database: %w", err)
	}

	return &Store{db: db, queryTimeout: 30 * time.Second}, nil
}

func parseLocation(location string) string {
	location = strings.TrimSpace(location)
	if strings.HasPrefix(location, "sqlite://") {
		return strings.TrimPrefix(location, "sqlite://")
	}
	if strings.HasPrefix(location, "sqlite:") {
		return strings.TrimPrefix(location, "sqlite:")
	}
	return location
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores result and its records in one transaction.
func (s *Store) Save(ctx context.Context, result *runner.RunResult) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var runErr sql.NullString
	if result.Err != nil {
		runErr = sql.NullString{String: result.Err.Error(), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, base_url, started_at, duration_ms, error) VALUES (?, ?, ?, ?, ?, ?)`,
		result.ID, result.Scenario, result.BaseURL,
		result.StartedAt.UTC().Format(time.RFC3339Nano), result.Duration.Milliseconds(), runErr)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", result.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, seq, name, method, path, status, body, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range result.Records {
		ms := float64(rec.Duration.Microseconds()) / 1000
		if _, err := stmt.ExecContext(ctx, result.ID, i, rec.Name, rec.Method, rec.Path, rec.Status, rec.Body, ms); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.Name, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.scenario, r.base_url, r.started_at, r.duration_ms, r.error,
		       (SELECT COUNT(*) FROM records WHERE run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			durationMs int64
			runErr     sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Scenario, &run.BaseURL, &startedAt, &durationMs, &runErr, &run.Requests); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.Error = runErr.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// Records returns the stored records of runID in the order they ran.
// A run id prefix is accepted when it is unambiguous.
func (s *Store) Records(ctx context.Context, runID string) (string, []*runner.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	id, err := s.resolveID(ctx, runID)
	if err != nil {
		return "", nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, method, path, status, body, duration_ms FROM records WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return "", nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []*runner.Record
	for rows.Next() {
		var (
			rec runner.Record
			ms  float64
		)
		if err := rows.Scan(&rec.Name, &rec.Method, &rec.Path, &rec.Status, &rec.Body, &ms); err != nil {
			return "", nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec.Duration = time.Duration(ms * float64(time.Millisecond))
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return "", nil, fmt.Errorf("row iteration error: %w", err)
	}
	return id, records, nil
}

func (s *Store) resolveID(ctx context.Context, runID string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("%w: empty run id", ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' LIMIT 2`, runID, likePrefix(runID))
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan row: %w", err)
		}
		if id == runID {
			return id, nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("row iteration error: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run id prefix %q is ambiguous", runID)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePrefix turns a user-typed id prefix into a LIKE pattern matching it literally.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
