package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/vtodo/internal/domain"
	"github.com/alexanderramin/vtodo/internal/repository"
)

// ListStore mirrors the list collection. Deleting a list cascades to its
// todos through the associated TodoStore; the inbox list is exempt from
// deletion entirely.
type ListStore struct {
	repo  repository.ListRepo
	todos *TodoStore
	log   zerolog.Logger

	mu      sync.Mutex
	state   State
	lists   []domain.List
	subs    map[int]func([]domain.List)
	nextSub int
}

// NewListStore creates a ListStore in the Uninitialized state. todos may
// be nil in contexts that never delete lists.
func NewListStore(repo repository.ListRepo, todos *TodoStore, log zerolog.Logger) *ListStore {
	return &ListStore{
		repo:  repo,
		todos: todos,
		log:   log.With().Str("store", "lists").Logger(),
		subs:  make(map[int]func([]domain.List)),
	}
}

// State returns the current lifecycle state.
func (s *ListStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load reads the full collection from the repository and transitions the
// store to Ready. Calling Load on a Ready store is a no-op.
func (s *ListStore) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Uninitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = Loading
	s.mu.Unlock()

	lists, err := s.repo.ListAll(ctx)

	s.mu.Lock()
	if err != nil {
		s.state = Uninitialized
		s.mu.Unlock()
		return err
	}
	s.lists = make([]domain.List, 0, len(lists))
	for _, l := range lists {
		s.lists = append(s.lists, *l)
	}
	s.state = Ready
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	s.log.Debug().Int("count", len(lists)).Msg("list cache loaded")
	return nil
}

// Subscribe registers fn, immediately replays the current snapshot, and
// returns an unsubscribe func.
func (s *ListStore) Subscribe(fn func([]domain.List)) func() {
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

// Lists returns a copy of the current snapshot. Empty unless Ready.
func (s *ListStore) Lists() []domain.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Add constructs a list via the entity factory, persists it, then appends
// it to the cache. Returns the created list.
func (s *ListStore) Add(ctx context.Context, name string, opts ...domain.ListOption) (*domain.List, error) {
	list := domain.NewList(name, opts...)

	s.mu.Lock()
	if err := s.repo.Put(ctx, list); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", list.ID).Msg("persisting new list failed")
		return nil, err
	}
	s.lists = append(s.lists, *list)
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()

	result := *list
	return &result, nil
}

// Update merges a partial patch over the cached list (rename, recolor,
// reorder). Absent ids are a silent no-op.
func (s *ListStore) Update(ctx context.Context, id string, patch domain.ListPatch) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	updated := s.lists[i]
	patch.Apply(&updated)

	if err := s.repo.Put(ctx, &updated); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", id).Msg("persisting list update failed")
		return err
	}
	s.lists[i] = updated
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// Remove deletes a list and cascades to its todos. The todos are removed
// first (one atomic batch) and the list row last, so a crash mid-cascade
// orphans todos rather than leaving a list pointing at half-deleted
// children. The inbox list is a silent no-op.
func (s *ListStore) Remove(ctx context.Context, id string) error {
	if id == domain.InboxListID {
		return nil
	}

	if s.todos != nil {
		if err := s.todos.RemoveByList(ctx, id); err != nil {
			return err
		}
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", id).Msg("persisting list delete failed")
		return err
	}
	s.lists = append(s.lists[:i], s.lists[i+1:]...)
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// Reorder assigns positional sort orders to the ids listed. Unknown input
// ids are dropped; cached lists not mentioned keep their existing sort
// order and remain visible. One atomic batch, then wholesale replacement.
func (s *ListStore) Reorder(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	position := make(map[string]int64, len(orderedIDs))
	for i, id := range orderedIDs {
		if s.indexLocked(id) >= 0 {
			position[id] = int64(i)
		}
	}

	updated := make([]domain.List, 0, len(s.lists))
	for _, l := range s.lists {
		if pos, ok := position[l.ID]; ok {
			l.SortOrder = pos
		}
		updated = append(updated, l)
	}
	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].SortOrder < updated[j].SortOrder
	})
	batch := make([]*domain.List, 0, len(updated))
	for i := range updated {
		batch = append(batch, &updated[i])
	}

	if err := s.repo.PutMany(ctx, batch); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("persisting list reorder failed")
		return err
	}
	s.lists = updated
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

func (s *ListStore) indexLocked(id string) int {
	for i := range s.lists {
		if s.lists[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ListStore) snapshotLocked() []domain.List {
	if s.state != Ready {
		return []domain.List{}
	}
	snap := make([]domain.List, len(s.lists))
	copy(snap, s.lists)
	return snap
}

func (s *ListStore) notifyLocked() func() {
	if len(s.subs) == 0 {
		return func() {}
	}
	snap := s.snapshotLocked()
	fns := make([]func([]domain.List), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}
