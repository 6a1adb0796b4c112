// Package sqlite provides the SQLite-backed run journal for fmodcli.
// Uses WAL mode so a concurrent `history` read never blocks a `run`.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/tutu-network/fmodcli/internal/domain"
)

// FileName is the journal database inside the data directory.
const FileName = "history.db"

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

var _ domain.HistoryStore = (*DB)(nil)

// Open creates or opens the journal at dir/history.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, FileName)
	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			prompt      TEXT NOT NULL,
			model       TEXT NOT NULL DEFAULT '',
			outcome     TEXT NOT NULL,
			output      TEXT NOT NULL,
			created_at  INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// ─── Run Journal ────────────────────────────────────────────────────────────

// RecordRun stores one run invocation.
func (d *DB) RecordRun(e domain.HistoryEntry) error {
	_, err := d.db.Exec(
		`INSERT INTO runs (id, prompt, model, outcome, output, created_at, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Prompt, e.Model, string(e.Outcome), e.Output,
		e.CreatedAt.UnixMilli(), int64(e.Duration),
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (d *DB) RecentRuns(limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return []domain.HistoryEntry{}, nil
	}
	rows, err := d.db.Query(
		`SELECT id, prompt, model, outcome, output, created_at, duration_ns
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			outcome   string
			createdAt int64
			duration  int64
		)
		if err := rows.Scan(&e.ID, &e.Prompt, &e.Model, &outcome, &e.Output, &createdAt, &duration); err != nil {
			return nil, err
		}
		e.Outcome = domain.Outcome(outcome)
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		e.Duration = time.Duration(duration)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountRuns returns the number of journaled runs.
func (d *DB) CountRuns() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}
