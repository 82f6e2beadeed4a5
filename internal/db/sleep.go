package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/sleep"
)

// GetSleepSchedule returns the stored schedule with its overrides.
// Returns sleep.ErrNoSchedule until SaveSleepSchedule has been called.
func (s *SQLite) GetSleepSchedule(ctx context.Context) (sleep.Schedule, error) {
	var sched sleep.Schedule
	err := s.db.QueryRowContext(ctx, `
		SELECT weekday_wake, weekday_sleep, weekend_wake, weekend_sleep
		FROM sleep_schedule WHERE id = 1
	`).Scan(&sched.Weekday.Wake, &sched.Weekday.Sleep, &sched.Weekend.Wake, &sched.Weekend.Sleep)
	if errors.Is(err, sql.ErrNoRows) {
		return sleep.Schedule{}, sleep.ErrNoSchedule
	}
	if err != nil {
		return sleep.Schedule{}, fmt.Errorf("querying sleep schedule: %w", err)
	}

	sched.Special, err = s.listSleepOverrides(ctx)
	if err != nil {
		return sleep.Schedule{}, err
	}
	return sched, nil
}

func (s *SQLite) listSleepOverrides(ctx context.Context) (map[dateutil.DateKey]sleep.Period, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date_key, wake, sleep FROM sleep_overrides ORDER BY date_key`)
	if err != nil {
		return nil, fmt.Errorf("querying sleep overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	special := make(map[dateutil.DateKey]sleep.Period)
	for rows.Next() {
		var (
			key string
			p   sleep.Period
		)
		if err := rows.Scan(&key, &p.Wake, &p.Sleep); err != nil {
			return nil, fmt.Errorf("scanning sleep override: %w", err)
		}
		k, err := dateutil.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("sleep override %q: %w", key, err)
		}
		special[k] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sleep overrides: %w", err)
	}
	return special, nil
}

// SaveSleepSchedule stores the weekday and weekend periods and replaces all
// overrides with sched.Special.
func (s *SQLite) SaveSleepSchedule(ctx context.Context, sched sleep.Schedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sleep_schedule (id, weekday_wake, weekday_sleep, weekend_wake, weekend_sleep)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			weekday_wake = excluded.weekday_wake,
			weekday_sleep = excluded.weekday_sleep,
			weekend_wake = excluded.weekend_wake,
			weekend_sleep = excluded.weekend_sleep
	`, sched.Weekday.Wake, sched.Weekday.Sleep, sched.Weekend.Wake, sched.Weekend.Sleep)
	if err != nil {
		return fmt.Errorf("saving sleep schedule: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sleep_overrides`); err != nil {
		return fmt.Errorf("clearing sleep overrides: %w", err)
	}
	for key, p := range sched.Special {
		if err := upsertOverride(ctx, tx, key, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SetSleepOverride stores the period for one specific day. Overrides need a
// stored schedule; without one it returns sleep.ErrNoSchedule.
func (s *SQLite) SetSleepOverride(ctx context.Context, key dateutil.DateKey, p sleep.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM sleep_schedule WHERE id = 1`).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return sleep.ErrNoSchedule
	}
	if err != nil {
		return fmt.Errorf("querying sleep schedule: %w", err)
	}

	if err := upsertOverride(ctx, tx, key, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ClearSleepOverride removes the override for a day. Missing overrides are ignored.
func (s *SQLite) ClearSleepOverride(ctx context.Context, key dateutil.DateKey) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sleep_overrides WHERE date_key = ?`, key.String()); err != nil {
		return fmt.Errorf("clearing sleep override: %w", err)
	}
	return nil
}

func upsertOverride(ctx context.Context, ex execer, key dateutil.DateKey, p sleep.Period) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO sleep_overrides (date_key, wake, sleep) VALUES (?, ?, ?)
		ON CONFLICT(date_key) DO UPDATE SET wake = excluded.wake, sleep = excluded.sleep
	`, key.String(), p.Wake, p.Sleep)
	if err != nil {
		return fmt.Errorf("saving sleep override %s: %w", key, err)
	}
	return nil
}
