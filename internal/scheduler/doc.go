// Package scheduler delivers alarm notifications at their fire times.
//
// The Scheduler interface mirrors a platform notification service: schedule
// by key, cancel by key, at most one outstanding notification per key. The
// TimerScheduler implementation keeps the timers in process and hands fired
// notifications to a caller-provided FireFunc.
package scheduler
