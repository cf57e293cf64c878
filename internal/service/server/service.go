package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nudnik/nudnik/internal/challenge"
	domain "github.com/nudnik/nudnik/internal/domain/alarm"
	"github.com/nudnik/nudnik/internal/logger"
	"github.com/nudnik/nudnik/internal/recurrence"
	repo "github.com/nudnik/nudnik/internal/repository/alarms"
	"github.com/nudnik/nudnik/internal/scheduler"
)

// snoozeKeySuffix separates snooze notifications from the regular schedule.
// A snooze is one-shot and independent of the recurrence schedule, so it is
// armed under its own key and never replaces the recurring notification.
const snoozeKeySuffix = ":snooze"

// service owns the authoritative in-memory alarm collection and orchestrates
// persistence and notification scheduling around every mutation.
//
// Mutations update the in-memory collection synchronously and optimistically;
// persistence and scheduling failures are logged and surfaced to the caller
// but never roll the mutation back.
type service struct {
	// repo handles persistent storage of the alarm collection.
	repo repo.Repository
	// sched arms and disarms notifications.
	sched scheduler.Scheduler
	// now supplies the current instant; replaceable in tests.
	now func() time.Time

	// alarms is the authoritative collection in insertion order.
	alarms []*domain.Alarm
	// problems holds the outstanding math problem per alarm id.
	problems map[string]challenge.Problem
	// mu protects the collection and the outstanding problems.
	mu sync.RWMutex
}

// newService creates a service backed by the provided repository and
// scheduler, loading the stored collection. A missing alarms file yields an
// empty collection. Restored alarms are not armed here; call RearmAll once
// the scheduler's fire handler is wired up.
func newService(ctx context.Context, repository repo.Repository, sched scheduler.Scheduler) (*service, error) {
	s := &service{
		repo:     repository,
		sched:    sched,
		now:      time.Now,
		problems: make(map[string]challenge.Problem),
	}

	if repository == nil {
		return s, nil
	}

	stored, err := repository.Load(ctx)
	switch {
	case err == nil:
		s.alarms = stored
	case errors.Is(err, repo.ErrNotFound):
		// First start, keep the empty collection.
	default:
		return nil, fmt.Errorf("load alarms: %w", err)
	}

	return s, nil
}

// RearmAll schedules a notification for every enabled alarm. It runs on
// startup so schedules survive a restart; re-arming an already armed alarm
// just replaces its notification, so the call is idempotent.
func (s *service) RearmAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.alarms {
		if !a.Enabled {
			continue
		}

		if err := s.scheduleLocked(ctx, a); err != nil {
			logger.Errorf(ctx, "Failed to re-arm alarm %s: %v", a.ID, err)
		}
	}
}

// ListAlarms returns a snapshot of the alarm collection.
func (s *service) ListAlarms(_ context.Context) []*domain.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Alarm, 0, len(s.alarms))
	for _, a := range s.alarms {
		result = append(result, a.Clone())
	}

	return result
}

// GetAlarm returns the alarm with the given id.
func (s *service) GetAlarm(_ context.Context, id string) (*domain.Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a := s.findLocked(id)
	if a == nil {
		return nil, domain.ErrNotFound
	}

	return a.Clone(), nil
}

// AddAlarm validates the draft, assigns a fresh id, appends the alarm to the
// collection, persists it and, if enabled, arms its notification.
//
// The returned record is observable immediately even when persistence or
// scheduling fails; such failures come back as the error.
func (s *service) AddAlarm(ctx context.Context, draft domain.Draft) (*domain.Alarm, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := domain.New(draft)
	s.alarms = append(s.alarms, a)

	logger.InfoKV(ctx, "Alarm added", "alarm_id", a.ID, "enabled", a.Enabled, "days", a.Recurrence.Days)

	if err := s.persistLocked(ctx); err != nil {
		return a.Clone(), err
	}

	if a.Enabled {
		if err := s.scheduleLocked(ctx, a); err != nil {
			return a.Clone(), err
		}
	}

	return a.Clone(), nil
}

// UpdateAlarm merges the draft into the stored alarm, persists the collection
// and unconditionally recomputes the schedule, whether or not time or
// recurrence actually changed.
func (s *service) UpdateAlarm(ctx context.Context, id string, draft domain.Draft) (*domain.Alarm, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findLocked(id)
	if a == nil {
		return nil, domain.ErrNotFound
	}

	a.Apply(draft)

	// The outstanding problem may no longer match the task configuration.
	delete(s.problems, id)

	logger.InfoKV(ctx, "Alarm updated", "alarm_id", a.ID, "enabled", a.Enabled, "days", a.Recurrence.Days)

	if err := s.persistLocked(ctx); err != nil {
		return a.Clone(), err
	}

	if err := s.rescheduleLocked(ctx, a); err != nil {
		return a.Clone(), err
	}

	return a.Clone(), nil
}

// ToggleAlarm flips the enabled flag, persists the collection, and arms or
// disarms the alarm's notifications accordingly.
func (s *service) ToggleAlarm(ctx context.Context, id string, enabled bool) (*domain.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findLocked(id)
	if a == nil {
		return nil, domain.ErrNotFound
	}

	a.Enabled = enabled

	logger.InfoKV(ctx, "Alarm toggled", "alarm_id", a.ID, "enabled", enabled)

	if err := s.persistLocked(ctx); err != nil {
		return a.Clone(), err
	}

	if err := s.rescheduleLocked(ctx, a); err != nil {
		return a.Clone(), err
	}

	return a.Clone(), nil
}

// DeleteAlarm removes the alarm from the collection, persists the collection
// and cancels its pending notifications, the snooze one included.
func (s *service) DeleteAlarm(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1

	for i, a := range s.alarms {
		if a.ID == id {
			index = i

			break
		}
	}

	if index < 0 {
		return domain.ErrNotFound
	}

	s.alarms = append(s.alarms[:index], s.alarms[index+1:]...)
	delete(s.problems, id)

	s.cancelLocked(ctx, id)

	logger.InfoKV(ctx, "Alarm deleted", "alarm_id", id)

	return s.persistLocked(ctx)
}

// SnoozeAlarm arms a one-shot notification at now plus the alarm's snooze
// duration, carrying the same alarm payload. It does not touch the regular
// recurring schedule. Returns the instant the snooze notification fires at.
func (s *service) SnoozeAlarm(ctx context.Context, id string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findLocked(id)
	if a == nil {
		return time.Time{}, domain.ErrNotFound
	}

	if !a.SnoozeEnabled {
		return time.Time{}, domain.ErrSnoozeDisabled
	}

	firesAt := s.now().Add(time.Duration(a.SnoozeDuration) * time.Minute)

	if err := s.sched.Schedule(ctx, id+snoozeKeySuffix, firesAt, a); err != nil {
		logger.Errorf(ctx, "Failed to arm snooze for alarm %s: %v", id, err)

		return time.Time{}, fmt.Errorf("arm snooze: %w", err)
	}

	logger.InfoKV(ctx, "Alarm snoozed", "alarm_id", id, "fires_at", firesAt)

	return firesAt, nil
}

// Challenge returns the challenge the caller must complete to dismiss the
// alarm. For math tasks it returns the outstanding problem, generating one
// if none is outstanding yet.
func (s *service) Challenge(_ context.Context, id string) (challenge.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findLocked(id)
	if a == nil {
		return challenge.Info{}, domain.ErrNotFound
	}

	info := challenge.Info{Type: a.Task.Type}

	if a.Task.Type == domain.TaskMath {
		problem, ok := s.problems[id]
		if !ok {
			problem = challenge.NewProblem(a.Task)
			s.problems[id] = problem
		}

		info.Question = problem.Question
	}

	return info, nil
}

// Dismiss runs a dismissal attempt against the alarm's wake-up task.
//
// A failed attempt is not an error: the alarm stays active and the caller may
// retry. For math tasks a wrong answer regenerates the problem and returns
// the new question. A successful dismissal disarms a pending snooze.
func (s *service) Dismiss(ctx context.Context, id string, attempt challenge.Attempt) (challenge.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findLocked(id)
	if a == nil {
		return challenge.Outcome{}, domain.ErrNotFound
	}

	var outcome challenge.Outcome

	switch a.Task.Type {
	case domain.TaskNone:
		outcome.Dismissed = true

	case domain.TaskMath:
		problem, ok := s.problems[id]
		if ok && attempt.Answer != nil && problem.Check(*attempt.Answer) {
			delete(s.problems, id)

			outcome.Dismissed = true

			break
		}

		// Wrong or missing answer: hand out a fresh problem to retry.
		problem = challenge.NewProblem(a.Task)
		s.problems[id] = problem
		outcome.Question = problem.Question

	case domain.TaskQRCode, domain.TaskBarCode:
		outcome.Dismissed = challenge.MatchCode(a.Task, attempt.Code)
	}

	if outcome.Dismissed {
		// The snooze no longer applies once the alarm is dismissed.
		if err := s.sched.Cancel(ctx, id+snoozeKeySuffix); err != nil {
			logger.Errorf(ctx, "Failed to disarm snooze for alarm %s: %v", id, err)
		}

		logger.InfoKV(ctx, "Alarm dismissed", "alarm_id", id, "task", a.Task.Type)
	} else {
		logger.InfoKV(ctx, "Dismissal attempt rejected", "alarm_id", id, "task", a.Task.Type)
	}

	return outcome, nil
}

// handleFire consumes notifications delivered by the scheduler.
//
// Recurring alarms are re-armed for their next occurrence. A one-shot alarm
// is disabled once it fired, so it never comes back after a restart. Snooze
// notifications need no follow-up.
func (s *service) handleFire(ctx context.Context, n scheduler.Notification) {
	ctx = logger.WithKV(ctx, "alarm_id", n.Alarm.ID)
	logger.InfoKV(ctx, "Alarm fired", "fired_at", n.FiresAt, "snooze", strings.HasSuffix(n.Key, snoozeKeySuffix))

	if strings.HasSuffix(n.Key, snoozeKeySuffix) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findLocked(n.Alarm.ID)
	if a == nil || !a.Enabled {
		return
	}

	if a.Recurrence.IsRepeating() {
		if err := s.scheduleLocked(ctx, a); err != nil {
			logger.Errorf(ctx, "Failed to re-arm fired alarm %s: %v", a.ID, err)
		}

		return
	}

	// One-shot alarms fire exactly once.
	a.Enabled = false

	if err := s.persistLocked(ctx); err != nil {
		logger.Errorf(ctx, "Failed to persist one-shot alarm %s after firing: %v", a.ID, err)
	}
}

// findLocked returns the alarm with the given id, or nil. Callers hold mu.
func (s *service) findLocked(id string) *domain.Alarm {
	for _, a := range s.alarms {
		if a.ID == id {
			return a
		}
	}

	return nil
}

// persistLocked writes the whole collection through the repository.
// The in-memory state is already mutated and stays that way on failure.
func (s *service) persistLocked(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	if err := s.repo.Save(ctx, s.alarms); err != nil {
		logger.Errorf(ctx, "Failed to persist alarm collection: %v", err)

		return fmt.Errorf("persist alarms: %w", err)
	}

	return nil
}

// scheduleLocked recomputes the alarm's next fire time from scratch and arms
// its notification, replacing any notification already armed for its id.
func (s *service) scheduleLocked(ctx context.Context, a *domain.Alarm) error {
	next, err := recurrence.NextFireTime(a.Time, a.Recurrence.Days, s.now())
	if err != nil {
		return fmt.Errorf("resolve next fire time: %w", err)
	}

	if err := s.sched.Schedule(ctx, a.ID, next, a); err != nil {
		logger.Errorf(ctx, "Failed to arm alarm %s: %v", a.ID, err)

		return fmt.Errorf("arm alarm: %w", err)
	}

	logger.InfoKV(ctx, "Alarm armed", "alarm_id", a.ID, "fires_at", next)

	return nil
}

// rescheduleLocked brings the scheduler in line with the alarm's enabled
// flag: enabled alarms get a freshly computed notification, disabled ones
// get all pending notifications cancelled.
func (s *service) rescheduleLocked(ctx context.Context, a *domain.Alarm) error {
	if a.Enabled {
		return s.scheduleLocked(ctx, a)
	}

	s.cancelLocked(ctx, a.ID)

	return nil
}

// cancelLocked disarms the alarm's notification and its snooze notification.
func (s *service) cancelLocked(ctx context.Context, id string) {
	if err := s.sched.Cancel(ctx, id); err != nil {
		logger.Errorf(ctx, "Failed to disarm alarm %s: %v", id, err)
	}

	if err := s.sched.Cancel(ctx, id+snoozeKeySuffix); err != nil {
		logger.Errorf(ctx, "Failed to disarm snooze for alarm %s: %v", id, err)
	}
}
