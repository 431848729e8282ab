package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var schema = []string{ //nolint:gochecknoglobals // DDL
	`CREATE TABLE IF NOT EXISTS kpi_snapshots (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		series  TEXT    NOT NULL,
		vals    TEXT    NOT NULL,
		at_unix INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS kpi_snapshots_series ON kpi_snapshots (series, id)`,
}

// SQLiteStore keeps samples in a SQLite file so sparklines survive restarts.
// Each sample's values are stored as one JSON object.
type SQLiteStore struct {
	db       *sql.DB
	capacity int
}

// OpenSQLite opens or creates the history database at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := apply(opts)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; the driver serializes access to the file anyway
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteStore{db: db, capacity: s.capacity}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, series string, values map[string]float64, at time.Time) (bool, error) {
	// map keys are marshaled sorted, so equal values encode identically
	enc, err := json.Marshal(values)
	if err != nil {
		return false, fmt.Errorf("history: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, s.wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	var last string
	err = tx.QueryRowContext(ctx,
		`SELECT vals FROM kpi_snapshots WHERE series = ? ORDER BY id DESC LIMIT 1`, series).Scan(&last)
	switch {
	case err == nil && last == string(enc):
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, s.wrap(err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kpi_snapshots (series, vals, at_unix) VALUES (?, ?, ?)`,
		series, string(enc), at.UTC().UnixMilli()); err != nil {
		return false, s.wrap(err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM kpi_snapshots WHERE series = ? AND id NOT IN (
			SELECT id FROM kpi_snapshots WHERE series = ? ORDER BY id DESC LIMIT ?)`,
		series, series, s.capacity); err != nil {
		return false, s.wrap(err)
	}
	if err := tx.Commit(); err != nil {
		return false, s.wrap(err)
	}
	return true, nil
}

// Series implements Store.
func (s *SQLiteStore) Series(ctx context.Context, series string, limit int) ([]Sample, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT vals, at_unix FROM kpi_snapshots WHERE series = ? ORDER BY id DESC LIMIT ?`, series, limit)
	if err != nil {
		return nil, s.wrap(err)
	}
	defer func() { _ = rows.Close() }()

	var out []Sample
	for rows.Next() {
		var (
			raw string
			ms  int64
		)
		if err := rows.Scan(&raw, &ms); err != nil {
			return nil, s.wrap(err)
		}
		vals := map[string]float64{}
		if err := json.Unmarshal([]byte(raw), &vals); err != nil {
			return nil, fmt.Errorf("history: decode sample: %w", err)
		}
		out = append(out, Sample{Values: vals, At: time.UnixMilli(ms).UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(err)
	}
	slices.Reverse(out)
	return out, nil
}

// Count implements Store. Errors count as zero.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kpi_snapshots`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) wrap(err error) error {
	if errors.Is(err, sql.ErrConnDone) || err.Error() == "sql: database is closed" {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return fmt.Errorf("history: %w", err)
}
