package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/nudnik/nudnik/internal/domain/alarm"
)

// TestBuildDraft checks conversion of command flags into a valid alarm draft.
func TestBuildDraft(t *testing.T) {
	t.Parallel()

	opts := &AddOptions{
		Name:       "Workdays",
		At:         "06:45",
		Days:       []int{1, 2, 3, 4, 5},
		Task:       "math",
		Difficulty: "medium",
	}

	draft, err := buildDraft(opts)
	require.NoError(t, err)

	require.Equal(t, "Workdays", draft.Name)
	require.Equal(t, 6, draft.Time.Hour())
	require.Equal(t, 45, draft.Time.Minute())
	require.True(t, draft.Enabled)
	require.Equal(t, []int{1, 2, 3, 4, 5}, draft.Recurrence.Days)
	require.Equal(t, domain.TaskMath, draft.Task.Type)
	require.True(t, draft.SnoozeEnabled)
	require.Equal(t, 9, draft.SnoozeDuration)

	// The time of day is anchored to today in the local zone.
	now := time.Now()
	require.Equal(t, now.Day(), draft.Time.Day())
	require.Equal(t, now.Location(), draft.Time.Location())
}

// TestBuildDraftDefaults checks that omitted flags fall back to a plain alarm.
func TestBuildDraftDefaults(t *testing.T) {
	t.Parallel()

	draft, err := buildDraft(&AddOptions{At: "08:00"})
	require.NoError(t, err)

	require.Equal(t, domain.TaskNone, draft.Task.Type)
	require.Empty(t, draft.Recurrence.Days)
	require.True(t, draft.Enabled)
}

// TestBuildDraftRejectsBadInput checks flag validation.
func TestBuildDraftRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := buildDraft(&AddOptions{At: "8 o'clock"})
	require.Error(t, err)

	_, err = buildDraft(&AddOptions{At: "08:00", Days: []int{7}})
	require.ErrorIs(t, err, domain.ErrInvalidWeekday)

	_, err = buildDraft(&AddOptions{At: "08:00", Task: "juggling"})
	require.ErrorIs(t, err, domain.ErrUnknownTaskType)

	_, err = buildDraft(&AddOptions{At: "08:00", Task: "qrCode"})
	require.ErrorIs(t, err, domain.ErrCodeRequired)
}

// TestFormatDays checks rendering of recurrence day sets.
func TestFormatDays(t *testing.T) {
	t.Parallel()

	require.Equal(t, "once", formatDays(nil))
	require.Equal(t, "Mon,Tue,Fri", formatDays([]int{5, 1, 2}))
	require.Equal(t, "Sun,Sat", formatDays([]int{6, 0}))
}
