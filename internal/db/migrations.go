package db

import (
	"context"
	"fmt"
)

// migration is one forward schema step. Versions are applied in order and
// recorded in schema_version.
type migration struct {
	version int
	query   string
}

var migrations = []migration{
	{
		version: 1,
		query: `
		CREATE TABLE tasks (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			start_at       TEXT,
			end_at         TEXT,
			date_key       TEXT,
			completed      INTEGER NOT NULL DEFAULT 0,
			priority       INTEGER NOT NULL DEFAULT 1 CHECK(priority BETWEEN 0 AND 2),
			all_day        INTEGER NOT NULL DEFAULT 0,
			travel_minutes INTEGER NOT NULL DEFAULT 0,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		);

		CREATE INDEX idx_tasks_date_key ON tasks(date_key);
		CREATE INDEX idx_tasks_start_at ON tasks(start_at);
		`,
	},
	{
		version: 2,
		query: `
		CREATE TABLE sleep_schedule (
			id            INTEGER PRIMARY KEY CHECK(id = 1),
			weekday_wake  INTEGER NOT NULL,
			weekday_sleep INTEGER NOT NULL,
			weekend_wake  INTEGER NOT NULL,
			weekend_sleep INTEGER NOT NULL
		);

		CREATE TABLE sleep_overrides (
			date_key TEXT PRIMARY KEY,
			wake     INTEGER NOT NULL,
			sleep    INTEGER NOT NULL
		);
		`,
	},
}

// migrate runs pending database migrations.
func (s *SQLite) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
	}
	return nil
}

func (s *SQLite) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.query); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration.
func (s *SQLite) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v)
	return v, err
}
