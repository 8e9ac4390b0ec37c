package domain

import (
	"time"

	"github.com/google/uuid"
)

// InboxListID is the id of the built-in inbox list. The inbox always
// exists and is never deleted.
const InboxListID = "inbox"

// DefaultListColor is the color assigned to new lists.
const DefaultListColor = "#6b7280"

// List is a named container of todos, shown in the sidebar in SortOrder.
type List struct {
	ID        string
	Name      string
	Color     string
	SortOrder int64
}

// ListOption overrides a default field on a newly created list.
type ListOption func(*List)

func WithListID(id string) ListOption {
	return func(l *List) { l.ID = id }
}

func WithListColor(color string) ListOption {
	return func(l *List) { l.Color = color }
}

func WithListSortOrder(order int64) ListOption {
	return func(l *List) { l.SortOrder = order }
}

// NewList creates a list with defaults. Options are applied last and take
// precedence, so callers can pin any field (including the id) for
// deterministic tests.
func NewList(name string, opts ...ListOption) *List {
	l := &List{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     DefaultListColor,
		SortOrder: time.Now().UnixMilli(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
