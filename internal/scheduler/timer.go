package scheduler

import (
	"context"
	"sync"
	"time"

	domain "github.com/nudnik/nudnik/internal/domain/alarm"
	"github.com/nudnik/nudnik/internal/logger"
)

// TimerScheduler arms one in-process timer per schedule key.
//
// It stands in for the mobile platform's notification service: the daemon
// owns the wall-clock timers and hands fired notifications to a FireFunc.
type TimerScheduler struct {
	// fire receives notifications whose timer elapsed.
	fire FireFunc
	// timers maps schedule keys to their armed timers.
	timers map[string]*timerEntry
	// generation counts arming rounds, see timerEntry.
	generation uint64
	// mu protects the timer map and the generation counter.
	mu sync.Mutex
	// closed refuses new schedules after Shutdown.
	closed bool
}

// timerEntry is an armed timer tagged with its arming generation. A fired
// callback may lose the race against a Schedule replacing the same key; the
// generation lets it tell its own map entry from the replacement's, so the
// stale callback never evicts a live timer.
type timerEntry struct {
	timer      *time.Timer
	generation uint64
}

// NewTimerScheduler creates a scheduler delivering fired notifications to fire.
func NewTimerScheduler(fire FireFunc) *TimerScheduler {
	return &TimerScheduler{
		fire:   fire,
		timers: make(map[string]*timerEntry),
	}
}

// SetFireFunc installs the notification sink. The scheduler is constructed
// before the service consuming its notifications, so the sink is wired in a
// second step; notifications fired while no sink is set are dropped.
func (s *TimerScheduler) SetFireFunc(fire FireFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fire = fire
}

// Schedule arms a notification for the given instant, replacing any
// notification already armed under the same key.
func (s *TimerScheduler) Schedule(ctx context.Context, key string, firesAt time.Time, alarm *domain.Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return context.Canceled
	}

	// Replace, never stack: one outstanding notification per key.
	if previous, ok := s.timers[key]; ok {
		previous.timer.Stop()
		delete(s.timers, key)
	}

	s.generation++

	var (
		generation = s.generation
		delay      = time.Until(firesAt)
		snapshot   = alarm.Clone()
	)

	if delay < 0 {
		delay = 0
	}

	s.timers[key] = &timerEntry{
		generation: generation,
		timer: time.AfterFunc(delay, func() {
			s.deliver(key, generation, firesAt, snapshot)
		}),
	}

	logger.DebugKV(ctx, "Notification armed", "key", key, "fires_at", firesAt)

	return nil
}

// Cancel disarms the notification armed under the key.
// Cancelling an unknown key is a no-op, matching platform semantics.
func (s *TimerScheduler) Cancel(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.timers[key]; ok {
		entry.timer.Stop()
		delete(s.timers, key)

		logger.DebugKV(ctx, "Notification disarmed", "key", key)
	}

	return nil
}

// Pending returns the number of currently armed notifications.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}

// Shutdown disarms every timer and refuses further schedules.
func (s *TimerScheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, key)
	}

	s.closed = true
}

// deliver removes the fired timer and hands the notification to the sink.
// The map entry is removed only when it still belongs to the fired timer's
// arming round, because a Schedule for the same key may already have armed
// a replacement by the time the fired callback gets the lock.
func (s *TimerScheduler) deliver(key string, generation uint64, firesAt time.Time, alarm *domain.Alarm) {
	s.mu.Lock()

	if entry, ok := s.timers[key]; ok && entry.generation == generation {
		delete(s.timers, key)
	}

	fire := s.fire
	closed := s.closed
	s.mu.Unlock()

	if closed || fire == nil {
		return
	}

	fire(context.Background(), Notification{
		Key:     key,
		FiresAt: firesAt,
		Alarm:   alarm,
	})
}
