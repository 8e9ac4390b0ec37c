package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vtodo/internal/domain"
	"github.com/alexanderramin/vtodo/internal/repository"
	"github.com/alexanderramin/vtodo/internal/testutil"
)

func newRepos(t *testing.T) (repository.ListRepo, repository.TodoRepo, context.Context) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	return repository.NewSQLiteListRepo(database, uow),
		repository.NewSQLiteTodoRepo(database, uow),
		context.Background()
}

func TestBuildDemoTodos_FixtureThresholds(t *testing.T) {
	todos := BuildDemoTodos(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	require.Len(t, todos, 8)

	var completed, withDue, withRRule, withDescription, withTags int
	ids := make(map[string]bool)
	for _, todo := range todos {
		assert.False(t, ids[todo.ID], "duplicate fixture id %s", todo.ID)
		ids[todo.ID] = true

		if todo.Status == domain.StatusCompleted {
			completed++
			assert.NotNil(t, todo.CompletedAt)
		}
		if todo.Due != nil {
			withDue++
		}
		if todo.RRule != nil {
			withRRule++
		}
		if todo.Description != "" {
			withDescription++
		}
		if len(todo.Tags) > 0 {
			withTags++
		}
	}

	assert.GreaterOrEqual(t, completed, 1)
	assert.GreaterOrEqual(t, withDue, 3)
	assert.GreaterOrEqual(t, withRRule, 1)
	assert.GreaterOrEqual(t, withDescription, 3)
	assert.GreaterOrEqual(t, withTags, 3)
}

func TestBuildDemoTodos_DatesRelativeToNow(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	todos := BuildDemoTodos(now)

	today := time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC)
	byID := map[string]*domain.Todo{}
	for _, todo := range todos {
		byID[todo.ID] = todo
	}

	require.NotNil(t, byID["demo-1"].Due)
	assert.True(t, byID["demo-1"].Due.Equal(today))
	require.NotNil(t, byID["demo-4"].Due)
	assert.True(t, byID["demo-4"].Due.Equal(today.AddDate(0, 0, 1)))
	require.NotNil(t, byID["demo-2"].Due)
	assert.True(t, byID["demo-2"].Due.Equal(today.AddDate(0, 0, 5)))
}

func TestSeed_WritesListsAndTodos(t *testing.T) {
	lists, todos, ctx := newRepos(t)

	seeded, err := Seed(ctx, lists, todos)
	require.NoError(t, err)
	assert.True(t, seeded)

	allLists, err := lists.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, allLists, 3) // inbox + work + personal

	allTodos, err := todos.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, allTodos, 8)
}

func TestSeed_SkipsWhenTodosExist(t *testing.T) {
	lists, todos, ctx := newRepos(t)

	require.NoError(t, todos.Put(ctx, testutil.NewTestTodo("inbox", "already here")))

	seeded, err := Seed(ctx, lists, todos)
	require.NoError(t, err)
	assert.False(t, seeded)

	all, err := todos.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "seed must not touch a non-empty database")
}
