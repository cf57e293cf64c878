// Package recurrence resolves an alarm's weekday pattern into its next
// concrete fire time.
//
// It is a pure computation over RRULE-style weekly rules: no state, no side
// effects, re-evaluated from scratch on every schedule or reschedule.
package recurrence
