// Package alarm contains core domain types for the alarm business logic.
//
// It defines Alarm (the aggregate root), Draft (the user-editable fields),
// Recurrence (the active weekdays) and Task (the wake-up challenge), with
// validation at the mutation boundary and Clone helpers to avoid leaking
// internal references.
package alarm
