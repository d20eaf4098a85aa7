// Package auditstore persists an append-only trail of tool invocations in
// an embedded sqlite database.
//
// The trail is operational bookkeeping, not part of the dispatch contract:
// a dispatcher configured without a store behaves identically on the wire.
package auditstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Invocation is one recorded dispatch.
type Invocation struct {
	ID       string        `json:"id"`
	Tool     string        `json:"tool"`
	Path     string        `json:"path,omitempty"`
	OK       bool          `json:"ok"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}

// Store is a sqlite-backed audit log.
type Store struct {
	db *sql.DB
}

// Open opens the audit database from a DATABASE_URL style DSN.
// Examples:
//   - sqlite:file:./audit.sqlite?cache=shared&_pragma=busy_timeout(5000)
//   - sqlite:file:audit?mode=memory&cache=shared
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("databaseURL is empty")
	}
	if !strings.HasPrefix(strings.ToLower(databaseURL), "sqlite:") {
		return nil, fmt.Errorf("unsupported scheme in %q (want sqlite:)", databaseURL)
	}
	// ncruces/go-sqlite3 registers driver name "sqlite3" and takes DSNs
	// like file:... or :memory:
	dsn := databaseURL[len("sqlite:"):]
	if dsn == "" {
		dsn = "file:filemcp-audit.sqlite?cache=shared&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS invocations (
	id          TEXT PRIMARY KEY,
	tool        TEXT NOT NULL,
	path        TEXT NOT NULL DEFAULT '',
	ok          INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS invocations_at_idx ON invocations (at DESC);`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Record appends one invocation row.
func (s *Store) Record(ctx context.Context, inv Invocation) error {
	if inv.ID == "" {
		return errors.New("invocation id is empty")
	}
	okInt := 0
	if inv.OK {
		okInt = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (id, tool, path, ok, duration_ms, at) VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Tool, inv.Path, okInt, inv.Duration.Milliseconds(), inv.At.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Recent returns up to limit invocations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tool, path, ok, duration_ms, at FROM invocations ORDER BY at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invocation
	for rows.Next() {
		var (
			inv   Invocation
			okInt int
			durMS int64
			at    string
		)
		if err := rows.Scan(&inv.ID, &inv.Tool, &inv.Path, &okInt, &durMS, &at); err != nil {
			return nil, err
		}
		inv.OK = okInt != 0
		inv.Duration = time.Duration(durMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			inv.At = ts
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Ping reports whether the database is reachable. Used by health checks.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("audit store is not open")
	}
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
