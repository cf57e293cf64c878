package alarm

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MinSnoozeDuration is the shortest snooze interval a user may configure.
	MinSnoozeDuration = 1
	// MaxSnoozeDuration is the longest snooze interval a user may configure.
	MaxSnoozeDuration = 99
)

var (
	// ErrNotFound is returned when a mutation targets an alarm id absent from the collection.
	ErrNotFound = errors.New("alarm not found")
	// ErrSnoozeDisabled is returned when snoozing an alarm that has snooze turned off.
	ErrSnoozeDisabled = errors.New("snooze is disabled for this alarm")
	// ErrInvalidWeekday is returned when a recurrence day is outside [0, 6].
	ErrInvalidWeekday = errors.New("recurrence day must be between 0 (Sunday) and 6 (Saturday)")
	// ErrDuplicateWeekday is returned when the same weekday appears twice in a recurrence.
	ErrDuplicateWeekday = errors.New("recurrence days must not repeat")
	// ErrInvalidSnoozeDuration is returned when the snooze duration is outside the allowed range.
	ErrInvalidSnoozeDuration = fmt.Errorf(
		"snooze duration must be between %d and %d minutes", MinSnoozeDuration, MaxSnoozeDuration)
)

// Recurrence describes the weekdays an alarm is active on.
type Recurrence struct {
	// Days holds weekday indices, 0 is Sunday through 6 is Saturday.
	// An empty set means the alarm fires once and never repeats.
	Days []int `json:"days"`
}

// IsRepeating reports whether the alarm recurs on at least one weekday.
func (r Recurrence) IsRepeating() bool {
	return len(r.Days) > 0
}

// Contains reports whether the given weekday is part of the recurrence.
func (r Recurrence) Contains(day time.Weekday) bool {
	for _, d := range r.Days {
		if d == int(day) {
			return true
		}
	}

	return false
}

// Alarm is the aggregate root of the alarm collection.
type Alarm struct {
	// ID uniquely identifies the alarm; assigned at creation, immutable.
	ID string `json:"id"`
	// Name is an optional display label.
	Name string `json:"name,omitempty"`
	// Time carries the wall-clock time of day the alarm fires.
	// Only hour and minute are meaningful for recurrence.
	Time time.Time `json:"time"`
	// Enabled indicates whether the alarm should be scheduled at all.
	Enabled bool `json:"enabled"`
	// Recurrence lists the weekdays the alarm is active on.
	Recurrence Recurrence `json:"recurrence"`
	// Task gates dismissal of the firing alarm.
	Task Task `json:"task"`
	// SnoozeEnabled indicates whether the user may snooze this alarm.
	SnoozeEnabled bool `json:"snoozeEnabled"`
	// SnoozeDuration is the snooze interval in minutes.
	SnoozeDuration int `json:"snoozeDuration"`
}

// Draft holds the user-editable alarm fields, everything except the id.
type Draft struct {
	Name           string     `json:"name,omitempty"`
	Time           time.Time  `json:"time"`
	Enabled        bool       `json:"enabled"`
	Recurrence     Recurrence `json:"recurrence"`
	Task           Task       `json:"task"`
	SnoozeEnabled  bool       `json:"snoozeEnabled"`
	SnoozeDuration int        `json:"snoozeDuration"`
}

// NewID returns a fresh unique alarm identifier.
func NewID() string {
	return uuid.NewString()
}

// New materialises a draft into an alarm with a freshly assigned id.
// The draft must have been validated beforehand.
func New(draft Draft) *Alarm {
	return &Alarm{
		ID:             NewID(),
		Name:           draft.Name,
		Time:           draft.Time,
		Enabled:        draft.Enabled,
		Recurrence:     draft.Recurrence,
		Task:           draft.Task,
		SnoozeEnabled:  draft.SnoozeEnabled,
		SnoozeDuration: draft.SnoozeDuration,
	}
}

// Apply merges the draft into the alarm, keeping its id.
func (a *Alarm) Apply(draft Draft) {
	a.Name = draft.Name
	a.Time = draft.Time
	a.Enabled = draft.Enabled
	a.Recurrence = draft.Recurrence
	a.Task = draft.Task
	a.SnoozeEnabled = draft.SnoozeEnabled
	a.SnoozeDuration = draft.SnoozeDuration
}

// Clone returns a deep copy of the alarm to avoid leaking internal references.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	if a.Recurrence.Days != nil {
		cloned.Recurrence.Days = make([]int, len(a.Recurrence.Days))
		copy(cloned.Recurrence.Days, a.Recurrence.Days)
	}

	return &cloned
}

// Validate checks the draft invariants at the mutation boundary.
// Invalid drafts are rejected and never stored.
func (draft Draft) Validate() error {
	seen := make(map[int]struct{}, len(draft.Recurrence.Days))

	for _, day := range draft.Recurrence.Days {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: got %d", ErrInvalidWeekday, day)
		}

		if _, ok := seen[day]; ok {
			return fmt.Errorf("%w: day %d", ErrDuplicateWeekday, day)
		}

		seen[day] = struct{}{}
	}

	if draft.SnoozeDuration < MinSnoozeDuration || draft.SnoozeDuration > MaxSnoozeDuration {
		return fmt.Errorf("%w: got %d", ErrInvalidSnoozeDuration, draft.SnoozeDuration)
	}

	return draft.Task.Validate()
}
