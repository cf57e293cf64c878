package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// tod builds a throwaway instant carrying only the given hour and minute.
func tod(hour, minute int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, 0, 0, time.UTC)
}

// TestNextFireTime_WeekdaySkip verifies that a Saturday evaluation of a
// Mon-Fri alarm lands on Monday morning, two days later.
func TestNextFireTime_WeekdaySkip(t *testing.T) {
	t.Parallel()

	// Saturday, 2024-03-09 08:30 UTC.
	now := time.Date(2024, time.March, 9, 8, 30, 0, 0, time.UTC)

	got, err := NextFireTime(tod(8, 0), []int{1, 2, 3, 4, 5}, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC), got)
	require.Equal(t, time.Monday, got.Weekday())
}

// TestNextFireTime_SameDay verifies a Monday-only alarm evaluated before its
// time on a Monday fires the same day.
func TestNextFireTime_SameDay(t *testing.T) {
	t.Parallel()

	// Monday, 2024-03-04 07:00 UTC.
	now := time.Date(2024, time.March, 4, 7, 0, 0, 0, time.UTC)

	got, err := NextFireTime(tod(8, 0), []int{1}, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC), got)
}

// TestNextFireTime_AlreadyPassed verifies a Monday-only alarm evaluated after
// its time on a Monday fires a full week later.
func TestNextFireTime_AlreadyPassed(t *testing.T) {
	t.Parallel()

	// Monday, 2024-03-04 09:00 UTC.
	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	got, err := NextFireTime(tod(8, 0), []int{1}, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC), got)
}

// TestNextFireTime_ExactlyNow verifies a fire time equal to now is treated as
// already missed.
func TestNextFireTime_ExactlyNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)

	got, err := NextFireTime(tod(8, 0), []int{1}, now)
	require.NoError(t, err)
	require.Equal(t, now.AddDate(0, 0, 7), got)
}

// TestNextFireTime_OneShot verifies the empty day set fires today before the
// alarm time and tomorrow after it.
func TestNextFireTime_OneShot(t *testing.T) {
	t.Parallel()

	// Before the alarm time.
	now := time.Date(2024, time.March, 9, 6, 15, 0, 0, time.UTC)

	got, err := NextFireTime(tod(8, 0), nil, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.March, 9, 8, 0, 0, 0, time.UTC), got)

	// After the alarm time.
	now = time.Date(2024, time.March, 9, 8, 1, 0, 0, time.UTC)

	got, err = NextFireTime(tod(8, 0), nil, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC), got)
}

// TestNextFireTime_Properties walks every weekday and several day sets,
// asserting the result is strictly future and lands on an active weekday.
func TestNextFireTime_Properties(t *testing.T) {
	t.Parallel()

	daySets := [][]int{
		{0}, {6}, {1, 3, 5}, {0, 1, 2, 3, 4, 5, 6}, {2, 4},
	}

	// A full week of evaluation points, Monday through Sunday.
	base := time.Date(2024, time.March, 4, 11, 45, 0, 0, time.UTC)

	for offset := range 7 {
		now := base.AddDate(0, 0, offset)

		for _, days := range daySets {
			got, err := NextFireTime(tod(6, 30), days, now)
			require.NoError(t, err)
			require.True(t, got.After(now), "result %v must be after %v", got, now)

			active := false
			for _, d := range days {
				if int(got.Weekday()) == d {
					active = true
				}
			}

			require.True(t, active, "weekday %v not in %v", got.Weekday(), days)

			// Re-evaluating from the result never reselects the same instant.
			again, err := NextFireTime(tod(6, 30), days, got)
			require.NoError(t, err)
			require.True(t, again.After(got))
		}
	}
}

// TestNextFireTime_SingleDayIsWeekly verifies that for a single active day,
// re-evaluating from the result advances by exactly seven days.
func TestNextFireTime_SingleDayIsWeekly(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 4, 5, 0, 0, 0, time.UTC)

	first, err := NextFireTime(tod(8, 0), []int{4}, now)
	require.NoError(t, err)

	second, err := NextFireTime(tod(8, 0), []int{4}, first)
	require.NoError(t, err)
	require.Equal(t, first.AddDate(0, 0, 7), second)
}

// TestNextFireTime_InvalidWeekday verifies out-of-range days are rejected.
func TestNextFireTime_InvalidWeekday(t *testing.T) {
	t.Parallel()

	_, err := NextFireTime(tod(8, 0), []int{7}, time.Now())
	require.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = NextFireTime(tod(8, 0), []int{-1}, time.Now())
	require.ErrorIs(t, err, ErrInvalidWeekday)
}
