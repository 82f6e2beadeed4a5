// Package task defines the core domain types for slate.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/slate/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidPriority   = errors.New("priority must be 'low', 'medium' or 'high'")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart    = errors.New("end time must not be before start time")
	ErrEndWithoutStart   = errors.New("end time requires a start time")
	ErrNegativeTravel    = errors.New("travel time cannot be negative")
)

// Domain errors.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// Priority orders tasks by importance. Higher values sort first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String returns the lowercase priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority parses "low", "medium" or "high" (case-insensitive).
// An empty string yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "", "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return 0, ErrInvalidPriority
	}
}

// Origin tells user-created tasks apart from blocks the engine synthesizes.
type Origin int

const (
	OriginUser Origin = iota
	OriginSleep
)

func (o Origin) String() string {
	if o == OriginSleep {
		return "sleep"
	}
	return "user"
}

// Task is a calendar entry. Start and End are optional: a task without a
// start belongs to the backlog.
type Task struct {
	ID          string
	Title       string
	Description string // optional, empty means none
	Start       *time.Time
	End         *time.Time
	Completed   bool
	Priority    Priority
	AllDay      bool
	TravelTime  time.Duration // optional, zero means none
	Origin      Origin
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Option configures a Task built by New.
type Option func(*Task)

// WithDescription sets the task description.
func WithDescription(desc string) Option {
	return func(t *Task) { t.Description = strings.TrimSpace(desc) }
}

// WithSchedule sets the start and end instants. Either may be nil.
func WithSchedule(start, end *time.Time) Option {
	return func(t *Task) {
		t.Start = start
		t.End = end
	}
}

// WithPriority sets the task priority.
func WithPriority(p Priority) Option {
	return func(t *Task) { t.Priority = p }
}

// WithAllDay marks the task as an all-day entry.
func WithAllDay(allDay bool) Option {
	return func(t *Task) { t.AllDay = allDay }
}

// WithTravelTime sets the "time to leave" offset before start.
func WithTravelTime(d time.Duration) Option {
	return func(t *Task) { t.TravelTime = d }
}

// New creates a new user Task with validation.
// The title must not be empty, an end requires a start, and the end must
// not precede the start.
func New(title string, opts ...Option) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now()
	t := &Task{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  PriorityMedium,
		Origin:    OriginUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the invariants enforced when tasks are created or edited.
// Stored tasks are not re-validated on read.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if t.End != nil && t.Start == nil {
		return ErrEndWithoutStart
	}
	if t.Start != nil && t.End != nil && t.End.Before(*t.Start) {
		return ErrEndBeforeStart
	}
	if t.TravelTime < 0 {
		return ErrNegativeTravel
	}
	return nil
}

// IsDated returns true if the task has a start and therefore a calendar day.
func (t *Task) IsDated() bool {
	return t.Start != nil
}

// HasInterval reports whether the task has both start and end with start
// strictly before end. Only such tasks take part in interval math.
func (t *Task) HasInterval() bool {
	return t.Start != nil && t.End != nil && t.Start.Before(*t.End)
}

// IsSleep returns true for synthesized sleep blocks.
func (t *Task) IsSleep() bool {
	return t.Origin == OriginSleep
}

// Duration returns the task length, or zero when it has no interval.
func (t *Task) Duration() time.Duration {
	if !t.HasInterval() {
		return 0
	}
	return t.End.Sub(*t.Start)
}

// LeaveAt returns the start minus travel time. ok is false for undated tasks.
func (t *Task) LeaveAt() (at time.Time, ok bool) {
	if t.Start == nil {
		return time.Time{}, false
	}
	return t.Start.Add(-t.TravelTime), true
}

// StartClock returns the start as "HH:MM", or "" when unset.
func (t *Task) StartClock() string {
	if t.Start == nil {
		return ""
	}
	return t.Start.Format(ClockLayout)
}

// EndClock returns the end as "HH:MM", or "" when unset.
func (t *Task) EndClock() string {
	if t.End == nil {
		return ""
	}
	return t.End.Format(ClockLayout)
}

// EndsOnLaterDay reports whether the task runs past the end of the day it
// starts on.
func (t *Task) EndsOnLaterDay() bool {
	if !t.HasInterval() {
		return false
	}
	return !dateutil.SameDay(*t.Start, t.End.In(t.Start.Location()))
}

// DayEndClock is EndClock limited to the start's day: tasks that end on a
// later day report "23:59".
func (t *Task) DayEndClock() string {
	if t.EndsOnLaterDay() {
		return MinutesToTime(MinutesPerDay - 1)
	}
	return t.EndClock()
}

// IsPast returns true if the task's end (or start, for point tasks) is before now.
func (t *Task) IsPast(now time.Time) bool {
	switch {
	case t.End != nil:
		return t.End.Before(now)
	case t.Start != nil:
		return t.Start.Before(now)
	default:
		return false
	}
}

// Clone returns a shallow copy with its own time pointers.
func (t *Task) Clone() *Task {
	c := *t
	if t.Start != nil {
		s := *t.Start
		c.Start = &s
	}
	if t.End != nil {
		e := *t.End
		c.End = &e
	}
	return &c
}
