package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/pauselab/internal/logger"
	"github.com/dtroode/pauselab/internal/model"
	"github.com/dtroode/pauselab/internal/scoring"
)

// Phase is the lifecycle stage of the progress store.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
)

// Snapshot is an immutable view of the store. Data is a private copy.
type Snapshot struct {
	Phase Phase
	Data  model.UserData
	// ResetKey increases on every full reset; consumers holding state tied
	// to the previous session discard it when the key changes.
	ResetKey int
}

// Progress owns the canonical user record and is its only writer.
// Mutations are applied one at a time; each persists before it becomes
// visible.
type Progress struct {
	repo      model.UserDataRepository
	reminders model.ReminderScheduler
	logger    *logger.Logger

	now   func() time.Time
	newID func() string

	sem   chan struct{}
	ready chan struct{}
	once  sync.Once

	mu    sync.RWMutex
	state Snapshot
	subs  map[int]chan Snapshot
	subID int
}

func NewProgress(repo model.UserDataRepository, reminders model.ReminderScheduler, logger *logger.Logger) *Progress {
	return &Progress{
		repo:      repo,
		reminders: reminders,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
		sem:       make(chan struct{}, 1),
		ready:     make(chan struct{}),
		state: Snapshot{
			Phase: PhaseUninitialized,
			Data:  model.DefaultUserData(),
		},
		subs: map[int]chan Snapshot{},
	}
}

// Start begins loading the stored record in the background. Subsequent
// calls are no-ops. The store always reaches PhaseReady.
func (p *Progress) Start(ctx context.Context) {
	p.mustBeValid()

	p.once.Do(func() {
		p.mu.Lock()
		p.state.Phase = PhaseLoading
		p.mu.Unlock()

		go p.hydrate(context.WithoutCancel(ctx))
	})
}

func (p *Progress) hydrate(ctx context.Context) {
	data, result := p.repo.Load(ctx)

	generated := false
	if data.DeviceID == "" {
		data.DeviceID = p.newID()
		generated = true
	}
	data.Normalize()

	// Only pin a fresh device id when storage is known to be readable, so a
	// slow or failing read never overwrites a real record with defaults.
	if generated && (result == model.LoadFound || result == model.LoadMissing) {
		if err := p.repo.Save(ctx, data); err != nil {
			p.logger.Warn("Progress store: failed to persist device id", "error", err)
		}
	}

	p.mu.Lock()
	p.state.Phase = PhaseReady
	p.state.Data = data
	p.broadcastLocked()
	p.mu.Unlock()

	close(p.ready)

	p.logger.Info("Progress store: ready", "load", string(result), "onboarded", data.OnboardingComplete)
}

// Wait blocks until the store is ready or ctx is done.
func (p *Progress) Wait(ctx context.Context) error {
	p.mustBeValid()

	if p.phase() == PhaseUninitialized {
		return model.ErrNotStarted
	}

	select {
	case <-p.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to wait for progress store: %w", ctx.Err())
	}
}

// State returns the current snapshot.
func (p *Progress) State() Snapshot {
	p.mustBeValid()

	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.state
	s.Data = s.Data.Clone()
	return s
}

// Subscribe returns a channel receiving the latest snapshot after every
// change. A slow reader only ever sees the newest pending snapshot. Call
// the returned func to unsubscribe; it closes the channel.
func (p *Progress) Subscribe() (<-chan Snapshot, func()) {
	p.mustBeValid()

	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.subID
	p.subID++
	ch := make(chan Snapshot, 1)
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
}

func (p *Progress) CompleteOnboarding(ctx context.Context, demographics model.Demographics, assessment model.AssessmentResult) (model.UserData, error) {
	return p.mutate(ctx, "complete onboarding", func(data *model.UserData) error {
		data.OnboardingComplete = true
		data.Demographics = demographics
		assessment.Scores = slices.Clone(assessment.Scores)
		data.Assessments = []model.AssessmentResult{assessment}
		now := p.now()
		data.FirstOpenDate = &now
		data.RemindersEnabled = true
		return nil
	}, p.enableReminders)
}

func (p *Progress) RecordPause(ctx context.Context, pauseID string, feeling model.Feeling, doneEarly bool) (model.UserData, error) {
	return p.mutate(ctx, "record pause", func(data *model.UserData) error {
		data.CompletedPauses = append(data.CompletedPauses, model.CompletedPause{
			PauseID:     pauseID,
			CompletedAt: p.now(),
			Feeling:     feeling,
			DoneEarly:   doneEarly,
		})
		return nil
	})
}

func (p *Progress) SaveAssessment(ctx context.Context, scores []int) (model.UserData, error) {
	return p.mutate(ctx, "save assessment", func(data *model.UserData) error {
		data.Assessments = append(data.Assessments, scoring.NewAssessment(slices.Clone(scores), p.now()))
		return nil
	})
}

func (p *Progress) SaveWeeklyCheckIn(ctx context.Context, rating, weekNumber int) (model.UserData, error) {
	return p.mutate(ctx, "save weekly check-in", func(data *model.UserData) error {
		data.WeeklyCheckIns = append(data.WeeklyCheckIns, model.WeeklyCheckIn{
			Date:       p.now(),
			Rating:     rating,
			WeekNumber: weekNumber,
		})
		return nil
	})
}

func (p *Progress) UpdateDemographics(ctx context.Context, demographics model.Demographics) (model.UserData, error) {
	return p.mutate(ctx, "update demographics", func(data *model.UserData) error {
		data.Demographics = demographics
		return nil
	})
}

// ToggleReminders stores the requested flag even when notifications cannot
// be enabled.
func (p *Progress) ToggleReminders(ctx context.Context, enabled bool) (model.UserData, error) {
	effect := p.cancelReminders
	if enabled {
		effect = p.enableReminders
	}
	return p.mutate(ctx, "toggle reminders", func(data *model.UserData) error {
		data.RemindersEnabled = enabled
		return nil
	}, effect)
}

func (p *Progress) ToggleResearchConsent(ctx context.Context, enabled bool) (model.UserData, error) {
	return p.mutate(ctx, "toggle research consent", func(data *model.UserData) error {
		data.ResearchConsent = enabled
		return nil
	})
}

func (p *Progress) ToggleFavourite(ctx context.Context, pauseID string) (model.UserData, error) {
	return p.mutate(ctx, "toggle favourite", func(data *model.UserData) error {
		if i := slices.Index(data.FavouritePauses, pauseID); i >= 0 {
			data.FavouritePauses = slices.Delete(data.FavouritePauses, i, i+1)
		} else {
			data.FavouritePauses = append(data.FavouritePauses, pauseID)
		}
		return nil
	})
}

// ResetAllData wipes the record and starts a new session with a fresh
// device id. The stored key is cleared first, so a failed save still leaves
// no trace of the old session and the new state is kept in memory.
func (p *Progress) ResetAllData(ctx context.Context) (model.UserData, error) {
	if err := p.acquire(ctx); err != nil {
		return model.UserData{}, err
	}
	defer p.release()

	p.cancelReminders(ctx)

	if err := p.repo.Clear(ctx); err != nil {
		p.logger.Warn("Progress store: failed to clear stored record", "error", err)
	}

	fresh := model.DefaultUserData()
	fresh.DeviceID = p.newID()

	saveErr := p.repo.Save(ctx, fresh)

	p.mu.Lock()
	p.state.Data = fresh
	p.state.ResetKey++
	p.broadcastLocked()
	p.mu.Unlock()

	p.logger.Info("Progress store: all data reset")

	if saveErr != nil {
		return fresh.Clone(), fmt.Errorf("failed to reset data: %w", saveErr)
	}
	return fresh.Clone(), nil
}

// mutate applies fn to a private copy of the current record, persists the
// result and only then publishes it. Effects run after a successful save,
// still inside the queue.
func (p *Progress) mutate(ctx context.Context, op string, fn func(data *model.UserData) error, effects ...func(context.Context)) (model.UserData, error) {
	if err := p.acquire(ctx); err != nil {
		return model.UserData{}, err
	}
	defer p.release()

	p.mu.RLock()
	next := p.state.Data.Clone()
	p.mu.RUnlock()

	if err := fn(&next); err != nil {
		return model.UserData{}, fmt.Errorf("failed to %s: %w", op, err)
	}

	if err := p.repo.Save(ctx, next); err != nil {
		return model.UserData{}, fmt.Errorf("failed to %s: %w", op, err)
	}

	p.mu.Lock()
	p.state.Data = next
	p.broadcastLocked()
	p.mu.Unlock()

	for _, effect := range effects {
		effect(ctx)
	}

	p.logger.Debug("Progress store: applied", "op", op)

	return next.Clone(), nil
}

func (p *Progress) acquire(ctx context.Context) error {
	if err := p.Wait(ctx); err != nil {
		return err
	}

	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to acquire progress store: %w", ctx.Err())
	}
}

func (p *Progress) release() {
	<-p.sem
}

// enableReminders never fails the calling mutation.
func (p *Progress) enableReminders(ctx context.Context) {
	if p.reminders == nil {
		return
	}

	granted, err := p.reminders.RequestPermission(ctx)
	if err != nil {
		p.logger.Warn("Progress store: notification permission request failed", "error", err)
		return
	}
	if !granted {
		p.logger.Info("Progress store: notification permission denied")
		return
	}

	if err := p.reminders.ScheduleDailyReminders(ctx); err != nil {
		p.logger.Warn("Progress store: failed to schedule reminders", "error", err)
	}
}

func (p *Progress) cancelReminders(ctx context.Context) {
	if p.reminders == nil {
		return
	}

	if err := p.reminders.CancelAll(ctx); err != nil {
		p.logger.Warn("Progress store: failed to cancel reminders", "error", err)
	}
}

func (p *Progress) broadcastLocked() {
	snap := p.state
	for _, ch := range p.subs {
		s := snap
		s.Data = snap.Data.Clone()
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func (p *Progress) phase() Phase {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Phase
}

func (p *Progress) mustBeValid() {
	if p == nil || p.repo == nil {
		panic("service: progress store used without being constructed")
	}
}
