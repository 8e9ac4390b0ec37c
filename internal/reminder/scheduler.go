// Package reminder implements the periodic scan that fires due reminder
// notifications at most once each.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/vtodo/internal/domain"
	"github.com/alexanderramin/vtodo/internal/notify"
)

// DefaultInterval is the scan period. The firing window equals the
// interval, so every trigger time falls into exactly one scan.
const DefaultInterval = 60 * time.Second

// Source is the scheduler's read-and-dismiss view of the todo cache.
// Dismissal goes through the owning store's update path, so it is
// persisted before the cache (and therefore the next scan) sees it.
type Source interface {
	Todos() []domain.Todo
	DismissReminder(ctx context.Context, todoID string, reminderIndex int) error
}

// Scheduler scans the todo snapshot on a fixed period and delivers one
// notification per undismissed reminder whose trigger time falls inside
// the current window. Triggers that passed more than one window ago are
// never fired retroactively.
type Scheduler struct {
	interval time.Duration
	notifier notify.Notifier
	log      zerolog.Logger
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval overrides the scan period (and with it the firing window).
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(notifier notify.Notifier, log zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		interval: DefaultInterval,
		notifier: notifier,
		log:      log.With().Str("component", "reminder").Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the periodic scan: one immediate scan, then one per
// interval until Stop. Start is idempotent; a previous run is stopped
// first.
func (s *Scheduler) Start(src Source) {
	s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.Scan(ctx, src)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Scan(ctx, src)
			}
		}
	}()
}

// Stop cancels the periodic scan and waits for an in-flight scan to
// complete. Safe to call when not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Scan executes one tick: every undismissed reminder of a non-completed
// todo with a due date fires iff trigger <= now < trigger+interval. A
// fired reminder is dismissed through the source before the next scan
// can observe it, which is the sole de-duplication mechanism. Without
// notification permission the scan still runs but delivers and dismisses
// nothing, so reminders stay eligible within the window.
func (s *Scheduler) Scan(ctx context.Context, src Source) {
	if s.notifier.CheckPermission() != notify.PermissionGranted {
		s.log.Debug().Msg("notification permission not granted, skipping delivery")
		return
	}

	now := s.now()
	for _, todo := range src.Todos() {
		if todo.Completed() || todo.Due == nil {
			continue
		}
		for i, rem := range todo.Reminders {
			if rem.Dismissed {
				continue
			}
			trigger := rem.TriggerTime(*todo.Due)
			if now.Before(trigger) || !now.Before(trigger.Add(s.interval)) {
				continue
			}

			tag := fmt.Sprintf("vtodo-reminder-%s-%d", todo.ID, i)
			if err := s.notifier.Deliver("VTodo Reminder", todo.Summary, tag); err != nil {
				// Leave the reminder eligible for the rest of the window.
				s.log.Warn().Err(err).Str("todo", todo.ID).Msg("notification delivery failed")
				continue
			}
			if err := src.DismissReminder(ctx, todo.ID, i); err != nil {
				s.log.Error().Err(err).Str("todo", todo.ID).Int("reminder", i).Msg("dismissing fired reminder failed")
			}
		}
	}
}
