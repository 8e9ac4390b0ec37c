package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vtodo/internal/domain"
	"github.com/alexanderramin/vtodo/internal/repository"
	"github.com/alexanderramin/vtodo/internal/testutil"
)

func newTestTodoStore(t *testing.T) (*TodoStore, repository.TodoRepo, context.Context) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTodoRepo(database, testutil.NewTestUoW(database))
	return NewTodoStore(repo, zerolog.Nop()), repo, context.Background()
}

// failingTodoRepo wraps a real repo and fails every write.
type failingTodoRepo struct {
	repository.TodoRepo
	err error
}

func (f *failingTodoRepo) Put(ctx context.Context, t *domain.Todo) error     { return f.err }
func (f *failingTodoRepo) PutMany(ctx context.Context, t []*domain.Todo) error { return f.err }
func (f *failingTodoRepo) Delete(ctx context.Context, id string) error       { return f.err }
func (f *failingTodoRepo) DeleteByList(ctx context.Context, id string) error { return f.err }

func TestTodoStore_StateGatesReads(t *testing.T) {
	s, repo, ctx := newTestTodoStore(t)

	require.NoError(t, repo.Put(ctx, testutil.NewTestTodo("inbox", "persisted early")))

	assert.Equal(t, Uninitialized, s.State())
	assert.Empty(t, s.Todos(), "reads before Ready return an empty snapshot")

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, Ready, s.State())
	assert.Len(t, s.Todos(), 1)

	// Load is idempotent once Ready.
	require.NoError(t, s.Load(ctx))
	assert.Len(t, s.Todos(), 1)
}

func TestTodoStore_AddPersistsAndAppends(t *testing.T) {
	s, repo, ctx := newTestTodoStore(t)
	require.NoError(t, s.Load(ctx))

	created, err := s.Add(ctx, "inbox", "write me down", domain.WithTags("notes"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	// Visible in the cache and in the durable store.
	assert.Len(t, s.Todos(), 1)
	persisted, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "write me down", persisted.Summary)
}

func TestTodoStore_WriteThroughFailureLeavesCacheUntouched(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	real := repository.NewSQLiteTodoRepo(database, testutil.NewTestUoW(database))
	require.NoError(t, real.Put(ctx, testutil.NewTestTodo("inbox", "survivor")))

	s := NewTodoStore(real, zerolog.Nop())
	require.NoError(t, s.Load(ctx))

	var notifications int
	s.Subscribe(func([]domain.Todo) { notifications++ })
	notifications = 0 // ignore the subscribe replay

	injected := errors.New("storage offline")
	s.repo = &failingTodoRepo{TodoRepo: real, err: injected}

	existing := s.Todos()[0]

	_, err := s.Add(ctx, "inbox", "never lands")
	assert.ErrorIs(t, err, injected)
	assert.ErrorIs(t, s.Update(ctx, existing.ID, domain.TodoPatch{Summary: domain.Ptr("x")}), injected)
	assert.ErrorIs(t, s.ToggleStatus(ctx, existing.ID), injected)
	assert.ErrorIs(t, s.Remove(ctx, existing.ID), injected)

	snap := s.Todos()
	require.Len(t, snap, 1)
	assert.Equal(t, "survivor", snap[0].Summary)
	assert.Equal(t, domain.StatusNeedsAction, snap[0].Status)
	assert.Zero(t, notifications, "failed writes must not notify observers")
}

func TestTodoStore_UpdateAbsentIDIsNoOp(t *testing.T) {
	s, _, ctx := newTestTodoStore(t)
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.Update(ctx, "ghost", domain.TodoPatch{Summary: domain.Ptr("boo")}))
	require.NoError(t, s.ToggleStatus(ctx, "ghost"))
	require.NoError(t, s.Remove(ctx, "ghost"))
	assert.Empty(t, s.Todos())
}

func TestTodoStore_UpdateForcesModified(t *testing.T) {
	s, _, ctx := newTestTodoStore(t)
	require.NoError(t, s.Load(ctx))

	created, err := s.Add(ctx, "inbox", "stamp me")
	require.NoError(t, err)

	later := created.Modified.Add(45 * time.Minute)
	s.now = func() time.Time { return later }

	require.NoError(t, s.Update(ctx, created.ID, domain.TodoPatch{Priority: domain.Ptr(1)}))

	got := s.Todos()[0]
	assert.Equal(t, 1, got.Priority)
	assert.True(t, got.Modified.Equal(later))
	assert.True(t, got.Created.Equal(created.Created))
}

func TestTodoStore_ToggleStatusIsItsOwnInverse(t *testing.T) {
	s, _, ctx := newTestTodoStore(t)
	require.NoError(t, s.Load(ctx))

	created, err := s.Add(ctx, "inbox", "flip me")
	require.NoError(t, err)

	require.NoError(t, s.ToggleStatus(ctx, created.ID))
	toggled := s.Todos()[0]
	assert.Equal(t, domain.StatusCompleted, toggled.Status)
	require.NotNil(t, toggled.CompletedAt)

	require.NoError(t, s.ToggleStatus(ctx, created.ID))
	back := s.Todos()[0]
	assert.Equal(t, domain.StatusNeedsAction, back.Status)
	assert.Nil(t, back.CompletedAt)
}

func TestTodoStore_ToggleStatusNeverProducesInProcess(t *testing.T) {
	s, _, ctx := newTestTodoStore(t)
	require.NoError(t, s.Load(ctx))

	created, err := s.Add(ctx, "inbox", "half done", domain.WithStatus(domain.StatusInProcess))
	require.NoError(t, err)

	require.NoError(t, s.ToggleStatus(ctx, created.ID))
	assert.Equal(t, domain.StatusCompleted, s.Todos()[0].Status)

	require.NoError(t, s.ToggleStatus(ctx, created.ID))
	assert.Equal(t, domain.StatusNeedsAction, s.Todos()[0].Status)
}

func TestTodoStore_ReorderPreservesUnlistedTodos(t *testing.T) {
	s, repo, ctx := newTestTodoStore(t)
	require.NoError(t, s.Load(ctx))

	a, err := s.Add(ctx, "inbox", "a", domain.WithTodoID("a"), domain.WithSortOrder(100))
	require.NoError(t, err)
	b, err := s.Add(ctx, "inbox", "b", domain.WithTodoID("b"), domain.WithSortOrder(200))
	require.NoError(t, err)
	c, err := s.Add(ctx, "inbox", "c", domain.WithTodoID("c"), domain.WithSortOrder(300))
	require.NoError(t, err)

	// Reorder only b and a; c is not mentioned and an unknown id is dropped.
	require.NoError(t, s.Reorder(ctx, []string{"b", "a", "ghost"}))

	snap := s.Todos()
	require.Len(t, snap, 3, "unlisted todos stay visible")

	byID := map[string]domain.Todo{}
	for _, todo := range snap {
		byID[todo.ID] = todo
	}
	assert.Equal(t, int64(0), byID[b.ID].SortOrder)
	assert.Equal(t, int64(1), byID[a.ID].SortOrder)
	assert.Equal(t, int64(300), byID[c.ID].SortOrder, "unlisted keeps its sort order")

	// The batch was persisted.
	persisted, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), persisted.SortOrder)
}

func TestTodoStore_SubscribeReplaysAndNotifies(t *testing.T) {
	s, _, ctx := newTestTodoStore(t)
	require.NoError(t, s.Load(ctx))

	var got [][]domain.Todo
	unsubscribe := s.Subscribe(func(snap []domain.Todo) {
		got = append(got, snap)
	})

	require.Len(t, got, 1, "subscribe replays the current snapshot")
	assert.Empty(t, got[0])

	_, err := s.Add(ctx, "inbox", "notify me")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[1], 1)

	unsubscribe()
	_, err = s.Add(ctx, "inbox", "silent")
	require.NoError(t, err)
	assert.Len(t, got, 2, "no notifications after unsubscribe")
}

func TestTodoStore_DismissReminderPersistsBeforeCache(t *testing.T) {
	s, repo, ctx := newTestTodoStore(t)
	require.NoError(t, s.Load(ctx))

	due := time.Now().UTC().Add(2 * time.Hour)
	created, err := s.Add(ctx, "inbox", "with reminder",
		domain.WithDue(due),
		domain.WithReminders(domain.Reminder{OffsetMinutes: -30}),
	)
	require.NoError(t, err)

	require.NoError(t, s.DismissReminder(ctx, created.ID, 0))

	// Persisted as well as cached.
	persisted, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Reminders, 1)
	assert.True(t, persisted.Reminders[0].Dismissed)
	assert.True(t, s.Todos()[0].Reminders[0].Dismissed)

	// Out-of-range and absent ids are no-ops.
	require.NoError(t, s.DismissReminder(ctx, created.ID, 5))
	require.NoError(t, s.DismissReminder(ctx, "ghost", 0))
}
