// Package seed populates an empty database with demo content.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/vtodo/internal/domain"
	"github.com/alexanderramin/vtodo/internal/repository"
)

// DemoLists are the demo lists beyond the built-in inbox.
func DemoLists() []*domain.List {
	return []*domain.List{
		{ID: "work", Name: "Work", Color: "#3b82f6", SortOrder: 1},
		{ID: "personal", Name: "Personal", Color: "#22c55e", SortOrder: 2},
	}
}

// BuildDemoTodos builds the demo todos with dates relative to now, so
// the data always looks fresh.
func BuildDemoTodos(now time.Time) []*domain.Todo {
	today := time.Date(now.Year(), now.Month(), now.Day(), 17, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	nextWeek := today.AddDate(0, 0, 5)

	stamp := func(t *domain.Todo, sortOrder int64) *domain.Todo {
		t.Created = now
		t.Modified = now
		t.SortOrder = sortOrder
		return t
	}

	return []*domain.Todo{
		stamp(domain.NewTodo("inbox", "Buy groceries",
			domain.WithTodoID("demo-1"),
			domain.WithDescription("- [ ] Eggs\n- [ ] Bread\n- [ ] Milk\n- [ ] Avocados\n- [ ] Coffee beans"),
			domain.WithPriority(5),
			domain.WithDue(today),
			domain.WithTags("errands"),
		), 1),
		stamp(domain.NewTodo("inbox", "Schedule dentist appointment",
			domain.WithTodoID("demo-2"),
			domain.WithPriority(7),
			domain.WithDue(nextWeek),
		), 2),
		stamp(domain.NewTodo("work", "Review pull request for auth service",
			domain.WithTodoID("demo-3"),
			domain.WithDescription("Check the new OAuth2 token refresh flow.\n\n- [ ] Read through code changes\n- [ ] Run test suite\n- [ ] Leave review comments"),
			domain.WithPriority(1),
			domain.WithDue(today),
			domain.WithTags("code-review"),
		), 3),
		stamp(domain.NewTodo("work", "Prepare slides for team standup",
			domain.WithTodoID("demo-4"),
			domain.WithPriority(5),
			domain.WithDue(tomorrow),
		), 4),
		stamp(domain.NewTodo("work", "Update project README",
			domain.WithTodoID("demo-5"),
			domain.WithStatus(domain.StatusCompleted),
			domain.WithCompletedAt(now),
			domain.WithPriority(9),
			domain.WithTags("docs"),
		), 5),
		stamp(domain.NewTodo("personal", "Go for a 30-minute run",
			domain.WithTodoID("demo-6"),
			domain.WithDue(today),
			domain.WithRRule("FREQ=DAILY"),
			domain.WithTags("health"),
		), 6),
		stamp(domain.NewTodo("personal", "Read chapter 5 of Design Patterns",
			domain.WithTodoID("demo-7"),
			domain.WithDescription("Focus on the **Observer** and **Strategy** patterns.\n\nTake notes on how they apply to the notification system refactor at work."),
			domain.WithTags("learning"),
		), 7),
		stamp(domain.NewTodo("personal", "Plan weekend trip",
			domain.WithTodoID("demo-8"),
			domain.WithDescription("- [ ] Pick a destination\n- [ ] Book accommodation\n- [ ] Check the weather forecast"),
			domain.WithPriority(5),
			domain.WithDue(nextWeek),
		), 8),
	}
}

// Seed writes the demo lists and todos. Skips entirely if any todos
// already exist. Returns true if data was seeded, false if skipped.
func Seed(ctx context.Context, lists repository.ListRepo, todos repository.TodoRepo) (bool, error) {
	existing, err := todos.ListAll(ctx)
	if err != nil {
		return false, fmt.Errorf("checking for existing todos: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	if err := lists.PutMany(ctx, DemoLists()); err != nil {
		return false, fmt.Errorf("seeding demo lists: %w", err)
	}
	if err := todos.PutMany(ctx, BuildDemoTodos(time.Now())); err != nil {
		return false, fmt.Errorf("seeding demo todos: %w", err)
	}
	return true, nil
}
