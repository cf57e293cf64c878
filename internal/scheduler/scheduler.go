package scheduler

import (
	"context"
	"time"

	domain "github.com/nudnik/nudnik/internal/domain/alarm"
)

// Notification is the payload delivered when a scheduled fire time is reached.
// It carries the full alarm record because the completion flow needs it.
type Notification struct {
	// Key is the schedule key the notification was armed under.
	Key string
	// FiresAt is the instant the notification was scheduled for.
	FiresAt time.Time
	// Alarm is a snapshot of the alarm record at scheduling time.
	Alarm *domain.Alarm
}

// FireFunc consumes delivered notifications.
type FireFunc func(ctx context.Context, n Notification)

// Scheduler abstracts the platform notification service: arm a notification
// for an instant under a key, or cancel the notification armed under a key.
//
// Scheduling under an already armed key replaces the previous request, so at
// most one notification is outstanding per key.
type Scheduler interface {
	Schedule(ctx context.Context, key string, firesAt time.Time, alarm *domain.Alarm) error
	Cancel(ctx context.Context, key string) error
}
