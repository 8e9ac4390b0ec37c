package domain

import (
	"time"

	"github.com/google/uuid"
)

// TodoStatus follows the RFC 5545 VTODO STATUS values.
type TodoStatus string

const (
	StatusNeedsAction TodoStatus = "NEEDS-ACTION"
	StatusInProcess   TodoStatus = "IN-PROCESS"
	StatusCompleted   TodoStatus = "COMPLETED"
)

// Reminder is a notification trigger relative to the parent todo's due
// date. A dismissed reminder never fires again; the scheduler only ever
// moves Dismissed from false to true.
type Reminder struct {
	// OffsetMinutes is relative to the parent's due date (negative = before).
	OffsetMinutes int  `json:"offsetMinutes"`
	Dismissed     bool `json:"dismissed"`
}

// TriggerTime returns the absolute time this reminder fires, given the
// parent todo's due date.
func (r Reminder) TriggerTime(due time.Time) time.Time {
	return due.Add(time.Duration(r.OffsetMinutes) * time.Minute)
}

// Todo is a single task entity. Field names track the VTODO properties
// they map to (SUMMARY, DUE, RRULE, CATEGORIES, VALARM, ...).
type Todo struct {
	ID          string
	ListID      string
	Summary     string
	Description string
	Status      TodoStatus
	// CompletedAt is non-nil iff Status is COMPLETED.
	CompletedAt *time.Time
	// Priority per RFC 5545: 0 = undefined, 1-4 high, 5 medium, 6-9 low.
	Priority  int
	Due       *time.Time
	RRule     *string
	Tags      []string
	Reminders []Reminder
	Created   time.Time
	Modified  time.Time
	SortOrder int64
	// RawIcs is an opaque round-trip payload for a future import/export
	// collaborator. The core never interprets it.
	RawIcs *string
}

// Completed reports whether the todo is in the COMPLETED status.
func (t *Todo) Completed() bool {
	return t.Status == StatusCompleted
}

// Clone returns a deep copy, so cache snapshots can be handed out without
// sharing the tags/reminders backing arrays.
func (t *Todo) Clone() Todo {
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Reminders != nil {
		c.Reminders = append([]Reminder(nil), t.Reminders...)
	}
	return c
}

// TodoOption overrides a default field on a newly created todo.
type TodoOption func(*Todo)

func WithTodoID(id string) TodoOption {
	return func(t *Todo) { t.ID = id }
}

func WithDescription(d string) TodoOption {
	return func(t *Todo) { t.Description = d }
}

func WithStatus(s TodoStatus) TodoOption {
	return func(t *Todo) { t.Status = s }
}

func WithCompletedAt(at time.Time) TodoOption {
	return func(t *Todo) { t.CompletedAt = &at }
}

func WithPriority(p int) TodoOption {
	return func(t *Todo) { t.Priority = p }
}

func WithDue(due time.Time) TodoOption {
	return func(t *Todo) { t.Due = &due }
}

func WithRRule(rule string) TodoOption {
	return func(t *Todo) { t.RRule = &rule }
}

func WithTags(tags ...string) TodoOption {
	return func(t *Todo) { t.Tags = tags }
}

func WithReminders(reminders ...Reminder) TodoOption {
	return func(t *Todo) { t.Reminders = reminders }
}

func WithTimestamps(created, modified time.Time) TodoOption {
	return func(t *Todo) {
		t.Created = created
		t.Modified = modified
	}
}

func WithSortOrder(order int64) TodoOption {
	return func(t *Todo) { t.SortOrder = order }
}

// NewTodo creates a todo with defaults: NEEDS-ACTION, no due date, empty
// tags and reminders, created == modified. Options are applied last and
// take precedence over the defaults.
func NewTodo(listID, summary string, opts ...TodoOption) *Todo {
	now := time.Now().UTC()
	t := &Todo{
		ID:        uuid.New().String(),
		ListID:    listID,
		Summary:   summary,
		Status:    StatusNeedsAction,
		Tags:      []string{},
		Reminders: []Reminder{},
		Created:   now,
		Modified:  now,
		SortOrder: now.UnixMilli(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
