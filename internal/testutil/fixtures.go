package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/vtodo/internal/domain"
)

var fixtureCounter atomic.Int64

// NewTestList creates a list with a stable, readable id. Options pass
// through to the factory.
func NewTestList(name string, opts ...domain.ListOption) *domain.List {
	n := fixtureCounter.Add(1)
	base := []domain.ListOption{
		domain.WithListID(fmt.Sprintf("list-%d", n)),
		domain.WithListSortOrder(n),
	}
	return domain.NewList(name, append(base, opts...)...)
}

// NewTestTodo creates a todo with a stable, readable id and pinned
// timestamps, so assertions do not race the clock.
func NewTestTodo(listID, summary string, opts ...domain.TodoOption) *domain.Todo {
	n := fixtureCounter.Add(1)
	created := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute)
	base := []domain.TodoOption{
		domain.WithTodoID(fmt.Sprintf("todo-%d", n)),
		domain.WithTimestamps(created, created),
		domain.WithSortOrder(n),
	}
	return domain.NewTodo(listID, summary, append(base, opts...)...)
}
