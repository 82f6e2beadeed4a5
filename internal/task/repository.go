package task

import (
	"context"
	"time"
)

// Repository defines the storage interface for tasks.
type Repository interface {
	// CreateTask adds a new task to the repository.
	CreateTask(ctx context.Context, task *Task) error

	// CreateTasks adds multiple tasks in a batch.
	CreateTasks(ctx context.Context, tasks []*Task) error

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if missing.
	GetTask(ctx context.Context, id string) (*Task, error)

	// ListTasksByDateRange returns all dated tasks whose start falls within
	// the date range (inclusive, by calendar day).
	ListTasksByDateRange(ctx context.Context, start, end time.Time) ([]*Task, error)

	// ListBacklog returns all tasks without a start.
	ListBacklog(ctx context.Context) ([]*Task, error)

	// ListAllTasks returns every task, dated first, ordered by start.
	ListAllTasks(ctx context.Context) ([]*Task, error)

	// UpdateTask replaces a task's editable fields.
	UpdateTask(ctx context.Context, task *Task) error

	// SetCompleted marks a task as completed or open.
	SetCompleted(ctx context.Context, id string, completed bool) error

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}
