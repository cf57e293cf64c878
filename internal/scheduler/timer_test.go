package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/nudnik/nudnik/internal/domain/alarm"
)

// testAlarm builds a minimal alarm record for scheduler tests.
func testAlarm(name string) *domain.Alarm {
	return domain.New(domain.Draft{
		Name:           name,
		Time:           time.Now(),
		Enabled:        true,
		Task:           domain.Task{Type: domain.TaskNone},
		SnoozeDuration: 5,
	})
}

// TestTimerScheduler_Fires verifies an armed notification is delivered with its payload.
func TestTimerScheduler_Fires(t *testing.T) {
	t.Parallel()

	fired := make(chan Notification, 1)
	s := NewTimerScheduler(func(_ context.Context, n Notification) {
		fired <- n
	})

	defer s.Shutdown()

	alarm := testAlarm("morning")
	firesAt := time.Now().Add(10 * time.Millisecond)

	require.NoError(t, s.Schedule(context.Background(), alarm.ID, firesAt, alarm))
	require.Equal(t, 1, s.Pending())

	select {
	case n := <-fired:
		require.Equal(t, alarm.ID, n.Key)
		require.Equal(t, alarm.Name, n.Alarm.Name)
		require.Equal(t, firesAt, n.FiresAt)
	case <-time.After(time.Second):
		t.Fatal("notification never fired")
	}

	require.Equal(t, 0, s.Pending())
}

// TestTimerScheduler_Cancel verifies a cancelled notification never fires.
func TestTimerScheduler_Cancel(t *testing.T) {
	t.Parallel()

	fired := make(chan Notification, 1)
	s := NewTimerScheduler(func(_ context.Context, n Notification) {
		fired <- n
	})

	defer s.Shutdown()

	alarm := testAlarm("cancelled")

	require.NoError(t, s.Schedule(context.Background(), alarm.ID, time.Now().Add(50*time.Millisecond), alarm))
	require.NoError(t, s.Cancel(context.Background(), alarm.ID))
	require.Equal(t, 0, s.Pending())

	select {
	case <-fired:
		t.Fatal("cancelled notification fired")
	case <-time.After(150 * time.Millisecond):
	}

	// Cancelling an unknown key is a harmless no-op.
	require.NoError(t, s.Cancel(context.Background(), "missing"))
}

// TestTimerScheduler_Replace verifies rescheduling a key keeps one outstanding notification.
func TestTimerScheduler_Replace(t *testing.T) {
	t.Parallel()

	fired := make(chan Notification, 2)
	s := NewTimerScheduler(func(_ context.Context, n Notification) {
		fired <- n
	})

	defer s.Shutdown()

	alarm := testAlarm("replaced")

	require.NoError(t, s.Schedule(context.Background(), alarm.ID, time.Now().Add(time.Hour), alarm))
	require.NoError(t, s.Schedule(context.Background(), alarm.ID, time.Now().Add(10*time.Millisecond), alarm))
	require.Equal(t, 1, s.Pending())

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("replacement notification never fired")
	}

	// The first schedule must not fire as well.
	select {
	case <-fired:
		t.Fatal("replaced notification fired")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestTimerScheduler_PayloadIsSnapshot verifies later alarm edits do not leak
// into an already armed notification.
func TestTimerScheduler_PayloadIsSnapshot(t *testing.T) {
	t.Parallel()

	fired := make(chan Notification, 1)
	s := NewTimerScheduler(func(_ context.Context, n Notification) {
		fired <- n
	})

	defer s.Shutdown()

	alarm := testAlarm("snapshot")
	require.NoError(t, s.Schedule(context.Background(), alarm.ID, time.Now().Add(10*time.Millisecond), alarm))

	alarm.Name = "mutated"

	select {
	case n := <-fired:
		require.Equal(t, "snapshot", n.Alarm.Name)
	case <-time.After(time.Second):
		t.Fatal("notification never fired")
	}
}

// TestTimerScheduler_LateFireKeepsReplacement covers the race between a
// fired timer's callback and a Schedule replacing the same key: the callback
// of the old timer runs after the replacement is armed and must not evict
// the replacement from the map, or Cancel would silently miss it.
func TestTimerScheduler_LateFireKeepsReplacement(t *testing.T) {
	t.Parallel()

	fired := make(chan Notification, 2)
	s := NewTimerScheduler(func(_ context.Context, n Notification) {
		fired <- n
	})

	defer s.Shutdown()

	alarm := testAlarm("late")
	firesAt := time.Now()

	// First arming round, then a replacement under the same key.
	require.NoError(t, s.Schedule(context.Background(), alarm.ID, time.Now().Add(time.Hour), alarm))
	require.NoError(t, s.Schedule(context.Background(), alarm.ID, time.Now().Add(time.Hour), alarm))

	// The first round's callback arrives late, exactly as if its timer had
	// elapsed just before the replacement was armed.
	s.deliver(alarm.ID, 1, firesAt, alarm.Clone())

	// The late notification is still delivered, but the replacement stays
	// tracked and cancellable.
	select {
	case n := <-fired:
		require.Equal(t, alarm.ID, n.Key)
	case <-time.After(time.Second):
		t.Fatal("late notification never delivered")
	}

	require.Equal(t, 1, s.Pending())
	require.NoError(t, s.Cancel(context.Background(), alarm.ID))
	require.Equal(t, 0, s.Pending())

	select {
	case <-fired:
		t.Fatal("cancelled replacement fired")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestTimerScheduler_Shutdown verifies Shutdown disarms timers and refuses new ones.
func TestTimerScheduler_Shutdown(t *testing.T) {
	t.Parallel()

	s := NewTimerScheduler(nil)
	alarm := testAlarm("shutdown")

	require.NoError(t, s.Schedule(context.Background(), alarm.ID, time.Now().Add(time.Hour), alarm))

	s.Shutdown()
	require.Equal(t, 0, s.Pending())

	err := s.Schedule(context.Background(), alarm.ID, time.Now().Add(time.Hour), alarm)
	require.Error(t, err)
}
