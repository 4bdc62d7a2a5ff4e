package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/pauselab/internal/logger"
	"github.com/dtroode/pauselab/internal/model"
)

var _ model.ReminderScheduler = (*Scheduler)(nil)

// Scheduler runs a background loop delivering the plan through a Notifier.
// At most one loop runs at a time.
type Scheduler struct {
	notifier Notifier
	plan     []Reminder
	logger   *logger.Logger
	now      func() time.Time
	after    func(d time.Duration) <-chan time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(notifier Notifier, plan []Reminder, logger *logger.Logger) (*Scheduler, error) {
	for _, r := range plan {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}

	return &Scheduler{
		notifier: notifier,
		plan:     plan,
		logger:   logger.With("component", "reminders"),
		now:      time.Now,
		after:    time.After,
	}, nil
}

func (s *Scheduler) RequestPermission(ctx context.Context) (bool, error) {
	granted, err := s.notifier.Authorize(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to authorize notifications: %w", err)
	}
	return granted, nil
}

// ScheduleDailyReminders replaces any running loop with a fresh one. The loop
// outlives ctx; stop it with CancelAll.
func (s *Scheduler) ScheduleDailyReminders(ctx context.Context) error {
	if err := s.CancelAll(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.loop(loopCtx, done)

	s.logger.Info("Reminders scheduled", "count", len(s.plan))
	return nil
}

// CancelAll stops the running loop, if any, and waits for it to exit.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop reminder loop: %w", ctx.Err())
	}
}

// Running reports whether a reminder loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if len(s.plan) == 0 {
		<-ctx.Done()
		return
	}

	for {
		now := s.now()
		due, when := Due(s.plan, now)

		select {
		case <-ctx.Done():
			return
		case <-s.after(when.Sub(now)):
		}

		for _, r := range due {
			if err := s.notifier.Notify(ctx, r); err != nil {
				s.logger.Warn("Failed to deliver reminder", "title", r.Title, "error", err)
			}
		}
	}
}
