package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// byWeekday maps weekday indices (0 is Sunday through 6 is Saturday)
// to their RRULE counterparts.
var byWeekday = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// ErrInvalidWeekday is returned when a recurrence day is outside [0, 6].
var ErrInvalidWeekday = errors.New("weekday index out of range")

// NextFireTime computes the next instant strictly after now at which an alarm
// with the given wall-clock time of day and active weekdays should fire.
//
// Only the hour and minute of timeOfDay are meaningful. An empty day set
// means the alarm fires once, today if the time has not passed yet and
// tomorrow otherwise. For a non-empty set the result's weekday is guaranteed
// to be one of the given days.
//
// The result is never cached by callers: alarm parameters can change between
// schedules, so every (re)schedule recomputes from scratch.
func NextFireTime(timeOfDay time.Time, days []int, now time.Time) (time.Time, error) {
	// Anchor the rule at today's date at the alarm's hour and minute,
	// in the caller's location. Seconds are not part of the contract.
	anchor := time.Date(
		now.Year(), now.Month(), now.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		now.Location(),
	)

	option := rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: anchor,
	}

	if len(days) > 0 {
		option.Freq = rrule.WEEKLY
		option.Byweekday = make([]rrule.Weekday, 0, len(days))

		for _, day := range days {
			if day < 0 || day >= len(byWeekday) {
				return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidWeekday, day)
			}

			option.Byweekday = append(option.Byweekday, byWeekday[day])
		}
	}

	rule, err := rrule.NewRRule(option)
	if err != nil {
		return time.Time{}, fmt.Errorf("build recurrence rule: %w", err)
	}

	// Strictly after now: a fire time equal to now is already missed.
	return rule.After(now, false), nil
}
