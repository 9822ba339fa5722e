// Package fetchlog records provider fetch outcomes in SQLite.
//
// The log is pure observability: every provider invocation of every refresh
// run lands here with its status and timing, so an operator can see which
// vendor broke and when. A failing log write never fails the pipeline.
package fetchlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry statuses. They mirror the aggregator's invocation outcomes.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

const schema = `
CREATE TABLE IF NOT EXISTS fetch_log (
    id            TEXT PRIMARY KEY,
    run_id        TEXT NOT NULL,
    product_id    TEXT NOT NULL,
    vendor        TEXT NOT NULL,
    status        TEXT NOT NULL,
    price         REAL NOT NULL DEFAULT 0,
    duration_ms   INTEGER NOT NULL DEFAULT 0,
    error_message TEXT NOT NULL DEFAULT '',
    fetched_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fetch_log_product ON fetch_log(product_id, fetched_at DESC);
CREATE INDEX IF NOT EXISTS idx_fetch_log_run ON fetch_log(run_id);
`

// Entry is one recorded provider invocation.
type Entry struct {
	ID           string
	RunID        string
	ProductID    string
	Vendor       string
	Status       string
	Price        float64
	DurationMs   int64
	ErrorMessage string
	FetchedAt    int64
}

// Store wraps the fetch-log database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the fetch-log database at path with
// WAL journaling and the schema applied.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("fetchlog: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("fetchlog: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("fetchlog: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("fetchlog: schema: %w", err)
	}

	return &Store{db: db, logger: slog.Default()}, nil
}

// OpenMemory opens an in-memory store for tests and registers cleanup.
func OpenMemory(t testing.TB) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("fetchlog.OpenMemory: %v", err)
	}
	s.db.SetMaxOpenConns(1)
	t.Cleanup(func() { s.Close() })
	return s
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records an entry. Missing ID and FetchedAt are filled in.
func (s *Store) Insert(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.FetchedAt == 0 {
		e.FetchedAt = time.Now().UnixMilli()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetch_log (id, run_id, product_id, vendor, status, price,
		duration_ms, error_message, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RunID, e.ProductID, e.Vendor, e.Status, e.Price,
		e.DurationMs, e.ErrorMessage, e.FetchedAt,
	)
	return err
}

// History returns a product's entries, newest first.
func (s *Store) History(ctx context.Context, productID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, product_id, vendor, status, price,
		duration_ms, error_message, fetched_at
		FROM fetch_log WHERE product_id = ?
		ORDER BY fetched_at DESC LIMIT ?`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RunID, &e.ProductID, &e.Vendor, &e.Status,
			&e.Price, &e.DurationMs, &e.ErrorMessage, &e.FetchedAt); err != nil {
			return nil, fmt.Errorf("fetchlog: scan: %w", err)
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

// RunSummary aggregates one run's outcomes by status.
type RunSummary struct {
	RunID  string
	OK     int
	Empty  int
	Errors int
}

// Summarize returns the per-status counts for a run.
func (s *Store) Summarize(ctx context.Context, runID string) (*RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM fetch_log WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sum := &RunSummary{RunID: runID}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("fetchlog: scan summary: %w", err)
		}
		switch status {
		case StatusOK:
			sum.OK = n
		case StatusEmpty:
			sum.Empty = n
		case StatusError:
			sum.Errors = n
		}
	}
	return sum, rows.Err()
}

// Recorder binds the store to one refresh run, implementing the
// aggregator's recorder hook. Write failures are logged, never surfaced.
type Recorder struct {
	store *Store
	runID string
}

// NewRecorder creates a Recorder for the given run.
func (s *Store) NewRecorder(runID string) *Recorder {
	return &Recorder{store: s, runID: runID}
}

// Record implements the aggregate.Recorder contract.
func (r *Recorder) Record(ctx context.Context, productID, vendor, status string, price float64, d time.Duration, errMsg string) {
	err := r.store.Insert(ctx, &Entry{
		RunID:        r.runID,
		ProductID:    productID,
		Vendor:       vendor,
		Status:       status,
		Price:        price,
		DurationMs:   d.Milliseconds(),
		ErrorMessage: errMsg,
	})
	if err != nil {
		r.store.logger.Warn("fetchlog: insert failed", "vendor", vendor, "error", err)
	}
}
