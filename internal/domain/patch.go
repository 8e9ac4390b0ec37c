package domain

import "time"

// TodoPatch is a partial update merged over an existing todo. Nil pointer
// fields are left untouched; the Clear* flags set a nullable field to nil
// and win over the corresponding pointer.
type TodoPatch struct {
	ListID      *string
	Summary     *string
	Description *string
	Status      *TodoStatus
	Priority    *int

	CompletedAt      *time.Time
	ClearCompletedAt bool
	Due              *time.Time
	ClearDue         bool
	RRule            *string
	ClearRRule       bool

	Tags      []string
	Reminders []Reminder
	SortOrder *int64
	RawIcs    *string
}

// Apply merges the patch into t. The caller is responsible for bumping
// Modified; the stores force-set it on every update.
func (p TodoPatch) Apply(t *Todo) {
	if p.ListID != nil {
		t.ListID = *p.ListID
	}
	if p.Summary != nil {
		t.Summary = *p.Summary
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	switch {
	case p.ClearCompletedAt:
		t.CompletedAt = nil
	case p.CompletedAt != nil:
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
	switch {
	case p.ClearDue:
		t.Due = nil
	case p.Due != nil:
		due := *p.Due
		t.Due = &due
	}
	switch {
	case p.ClearRRule:
		t.RRule = nil
	case p.RRule != nil:
		rule := *p.RRule
		t.RRule = &rule
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), p.Tags...)
	}
	if p.Reminders != nil {
		t.Reminders = append([]Reminder(nil), p.Reminders...)
	}
	if p.SortOrder != nil {
		t.SortOrder = *p.SortOrder
	}
	if p.RawIcs != nil {
		ics := *p.RawIcs
		t.RawIcs = &ics
	}
}

// ListPatch is a partial update merged over an existing list.
type ListPatch struct {
	Name      *string
	Color     *string
	SortOrder *int64
}

// Apply merges the patch into l.
func (p ListPatch) Apply(l *List) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
	if p.SortOrder != nil {
		l.SortOrder = *p.SortOrder
	}
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
