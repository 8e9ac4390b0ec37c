// Package store provides in-memory mirrors of the persisted collections
// with subscribe/update semantics. Every mutation is write-through: the
// repository write completes before the cache changes and observers are
// notified, so a failed write leaves the visible state untouched.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/vtodo/internal/domain"
	"github.com/alexanderramin/vtodo/internal/repository"
)

// TodoStore mirrors the todo collection. Mutations are serialized by a
// mutex held across the persistence write and the cache update, which
// gives a single caller strict issue-order application.
type TodoStore struct {
	repo repository.TodoRepo
	log  zerolog.Logger
	now  func() time.Time

	mu      sync.Mutex
	state   State
	todos   []domain.Todo
	subs    map[int]func([]domain.Todo)
	nextSub int
}

// NewTodoStore creates a TodoStore in the Uninitialized state.
func NewTodoStore(repo repository.TodoRepo, log zerolog.Logger) *TodoStore {
	return &TodoStore{
		repo: repo,
		log:  log.With().Str("store", "todos").Logger(),
		now:  func() time.Time { return time.Now().UTC() },
		subs: make(map[int]func([]domain.Todo)),
	}
}

// State returns the current lifecycle state.
func (s *TodoStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load reads the full collection from the repository and transitions the
// store to Ready. Calling Load on a Ready store is a no-op; a failed load
// returns to Uninitialized so it can be retried.
func (s *TodoStore) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Uninitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = Loading
	s.mu.Unlock()

	todos, err := s.repo.ListAll(ctx)

	s.mu.Lock()
	if err != nil {
		s.state = Uninitialized
		s.mu.Unlock()
		return err
	}
	s.todos = make([]domain.Todo, 0, len(todos))
	for _, t := range todos {
		s.todos = append(s.todos, *t)
	}
	s.state = Ready
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	s.log.Debug().Int("count", len(todos)).Msg("todo cache loaded")
	return nil
}

// Subscribe registers fn, immediately replays the current snapshot to it,
// and returns an unsubscribe func. fn is invoked after every committed
// mutation with a fresh copy of the full collection.
func (s *TodoStore) Subscribe(fn func([]domain.Todo)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Todos returns a copy of the current snapshot. Empty unless Ready.
func (s *TodoStore) Todos() []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Add constructs a todo via the entity factory, persists it, then appends
// it to the cache. Returns the created todo.
func (s *TodoStore) Add(ctx context.Context, listID, summary string, opts ...domain.TodoOption) (*domain.Todo, error) {
	todo := domain.NewTodo(listID, summary, opts...)

	s.mu.Lock()
	if err := s.repo.Put(ctx, todo); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", todo.ID).Msg("persisting new todo failed")
		return nil, err
	}
	s.todos = append(s.todos, *todo)
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()

	result := todo.Clone()
	return &result, nil
}

// Update merges a partial patch over the cached todo and force-sets
// Modified. An id absent from the snapshot is a silent no-op: the UI may
// race a delete against a pending update, and that is not an error.
func (s *TodoStore) Update(ctx context.Context, id string, patch domain.TodoPatch) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	updated := s.todos[i].Clone()
	patch.Apply(&updated)
	updated.Modified = s.now()

	if err := s.repo.Put(ctx, &updated); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", id).Msg("persisting todo update failed")
		return err
	}
	s.todos[i] = updated
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// ToggleStatus flips a todo between COMPLETED and NEEDS-ACTION and
// sets/clears CompletedAt. A non-completed todo (including IN-PROCESS)
// becomes COMPLETED; toggling never produces IN-PROCESS.
func (s *TodoStore) ToggleStatus(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	updated := s.todos[i].Clone()
	now := s.now()
	if updated.Completed() {
		updated.Status = domain.StatusNeedsAction
		updated.CompletedAt = nil
	} else {
		updated.Status = domain.StatusCompleted
		updated.CompletedAt = &now
	}
	updated.Modified = now

	if err := s.repo.Put(ctx, &updated); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", id).Msg("persisting status toggle failed")
		return err
	}
	s.todos[i] = updated
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// Remove deletes a todo. Absent ids are a silent no-op.
func (s *TodoStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", id).Msg("persisting todo delete failed")
		return err
	}
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// Reorder assigns positional sort orders to the ids listed, in the order
// given. Ids not present in the cache are dropped from the input; cached
// todos not mentioned keep their existing sort order and remain visible.
// The whole updated set is written as one atomic batch, then the cache is
// replaced with exactly that set.
func (s *TodoStore) Reorder(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	position := make(map[string]int64, len(orderedIDs))
	for i, id := range orderedIDs {
		if s.indexLocked(id) >= 0 {
			position[id] = int64(i)
		}
	}

	updated := make([]domain.Todo, 0, len(s.todos))
	batch := make([]*domain.Todo, 0, len(s.todos))
	now := s.now()
	for _, t := range s.todos {
		c := t.Clone()
		if pos, ok := position[c.ID]; ok && c.SortOrder != pos {
			c.SortOrder = pos
			c.Modified = now
		}
		updated = append(updated, c)
	}
	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].SortOrder < updated[j].SortOrder
	})
	for i := range updated {
		batch = append(batch, &updated[i])
	}

	if err := s.repo.PutMany(ctx, batch); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("persisting todo reorder failed")
		return err
	}
	s.todos = updated
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// DismissReminder marks one reminder dismissed, persisting before the
// cache update so the next scheduler scan cannot observe it undismissed.
// Dismissed is never reset to false here; absent ids or out-of-range
// indexes are silent no-ops.
func (s *TodoStore) DismissReminder(ctx context.Context, todoID string, reminderIndex int) error {
	s.mu.Lock()
	i := s.indexLocked(todoID)
	if i < 0 || reminderIndex < 0 || reminderIndex >= len(s.todos[i].Reminders) {
		s.mu.Unlock()
		return nil
	}
	if s.todos[i].Reminders[reminderIndex].Dismissed {
		s.mu.Unlock()
		return nil
	}
	updated := s.todos[i].Clone()
	updated.Reminders[reminderIndex].Dismissed = true
	updated.Modified = s.now()

	if err := s.repo.Put(ctx, &updated); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", todoID).Msg("persisting reminder dismissal failed")
		return err
	}
	s.todos[i] = updated
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// RemoveByList deletes every cached todo belonging to listID, as one
// atomic repository batch. Used by the list-delete cascade; the list row
// itself is deleted afterwards by the ListStore.
func (s *TodoStore) RemoveByList(ctx context.Context, listID string) error {
	s.mu.Lock()
	if err := s.repo.DeleteByList(ctx, listID); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("list_id", listID).Msg("cascade todo delete failed")
		return err
	}
	remaining := s.todos[:0]
	for _, t := range s.todos {
		if t.ListID != listID {
			remaining = append(remaining, t)
		}
	}
	s.todos = remaining
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// indexLocked returns the snapshot index of id, or -1.
func (s *TodoStore) indexLocked(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}

// snapshotLocked returns a deep copy of the visible collection.
func (s *TodoStore) snapshotLocked() []domain.Todo {
	if s.state != Ready {
		return []domain.Todo{}
	}
	snap := make([]domain.Todo, 0, len(s.todos))
	for i := range s.todos {
		snap = append(snap, s.todos[i].Clone())
	}
	return snap
}

// notifyLocked captures the subscriber set and a snapshot under the lock
// and returns a closure the caller invokes after releasing it, so
// subscribers can safely call back into the store.
func (s *TodoStore) notifyLocked() func() {
	if len(s.subs) == 0 {
		return func() {}
	}
	snap := s.snapshotLocked()
	fns := make([]func([]domain.Todo), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}
