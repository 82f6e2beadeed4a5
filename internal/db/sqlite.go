// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/task"
)

var (
	// ErrSyntheticTask is returned when a synthesized block is written.
	ErrSyntheticTask = errors.New("synthesized tasks cannot be stored")

	// ErrAmbiguousID is returned when an ID prefix matches several tasks.
	ErrAmbiguousID = errors.New("task id prefix is ambiguous")
)

// timeLayout stores instants as UTC RFC3339 so they sort as text.
const timeLayout = time.RFC3339

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	loc *time.Location
}

// New creates a new SQLite repository and runs migrations. Date keys are
// computed and times are read back in loc; nil means time.Local.
func New(path string, loc *time.Location) (*SQLite, error) {
	if loc == nil {
		loc = time.Local
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, loc: loc}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const taskColumns = `id, title, description, start_at, end_at, completed, priority,
	all_day, travel_minutes, created_at, updated_at`

const insertTask = `
	INSERT INTO tasks (
		id, title, description, start_at, end_at, date_key, completed, priority,
		all_day, travel_minutes, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateTask adds a new task to the repository.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	return s.insert(ctx, s.db, t)
}

// CreateTasks adds multiple tasks in a batch using a transaction.
func (s *SQLite) CreateTasks(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tasks {
		if err := s.insert(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLite) insert(ctx context.Context, ex execer, t *task.Task) error {
	if t.IsSleep() {
		return ErrSyntheticTask
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("task %q: %w", t.Title, err)
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	_, err := ex.ExecContext(ctx, insertTask,
		t.ID,
		t.Title,
		t.Description,
		formatTime(t.Start),
		formatTime(t.End),
		s.dateKey(t.Start),
		t.Completed,
		int(t.Priority),
		t.AllDay,
		int(t.TravelTime/time.Minute),
		t.CreatedAt.UTC().Format(timeLayout),
		t.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting task %q: %w", t.Title, err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := s.scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// ResolveID expands an ID prefix, as printed by the CLI, to a full task ID.
func (s *SQLite) ResolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", task.ErrTaskNotFound
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM tasks WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return "", fmt.Errorf("resolving id: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", task.ErrTaskNotFound
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// ListTasksByDateRange returns all dated tasks whose start falls on a day
// between start and end (inclusive), ordered by start.
func (s *SQLite) ListTasksByDateRange(ctx context.Context, start, end time.Time) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE date_key >= ? AND date_key <= ?
		ORDER BY start_at, priority DESC, title`

	return s.queryTasks(ctx, query,
		dateutil.KeyOf(start.In(s.loc)).String(),
		dateutil.KeyOf(end.In(s.loc)).String(),
	)
}

// ListBacklog returns all tasks without a start, oldest first.
func (s *SQLite) ListBacklog(ctx context.Context) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE start_at IS NULL
		ORDER BY created_at, title`
	return s.queryTasks(ctx, query)
}

// ListAllTasks returns every task, dated first, ordered by start.
func (s *SQLite) ListAllTasks(ctx context.Context) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		ORDER BY start_at IS NULL, start_at, created_at, title`
	return s.queryTasks(ctx, query)
}

// UpdateTask replaces a task's editable fields.
func (s *SQLite) UpdateTask(ctx context.Context, t *task.Task) error {
	if t.IsSleep() {
		return ErrSyntheticTask
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("task %q: %w", t.Title, err)
	}
	t.UpdatedAt = time.Now()

	query := `
		UPDATE tasks SET
			title = ?, description = ?, start_at = ?, end_at = ?, date_key = ?,
			completed = ?, priority = ?, all_day = ?, travel_minutes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		formatTime(t.Start),
		formatTime(t.End),
		s.dateKey(t.Start),
		t.Completed,
		int(t.Priority),
		t.AllDay,
		int(t.TravelTime/time.Minute),
		t.UpdatedAt.UTC().Format(timeLayout),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return expectOneRow(result)
}

// SetCompleted marks a task as completed or open.
func (s *SQLite) SetCompleted(ctx context.Context, id string, completed bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?`,
		completed, time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return expectOneRow(result)
}

// DeleteTask removes a task.
func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func (s *SQLite) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLite) scanTask(row scanner) (*task.Task, error) {
	var (
		t                    task.Task
		start, end           sql.NullString
		priority, travel     int
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&start,
		&end,
		&t.Completed,
		&priority,
		&t.AllDay,
		&travel,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	t.Priority = task.Priority(priority)
	t.TravelTime = time.Duration(travel) * time.Minute
	t.Origin = task.OriginUser

	var err error
	if t.Start, err = s.parseTime(start); err != nil {
		return nil, fmt.Errorf("parsing start: %w", err)
	}
	if t.End, err = s.parseTime(end); err != nil {
		return nil, fmt.Errorf("parsing end: %w", err)
	}
	if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	t.CreatedAt = t.CreatedAt.In(s.loc)
	t.UpdatedAt = t.UpdatedAt.In(s.loc)

	return &t, nil
}

func (s *SQLite) parseTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, v.String)
	if err != nil {
		return nil, err
	}
	t = t.In(s.loc)
	return &t, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func (s *SQLite) dateKey(t *time.Time) any {
	if t == nil {
		return nil
	}
	return dateutil.KeyOf(t.In(s.loc)).String()
}
