package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nudnik/nudnik/internal/challenge"
	"github.com/nudnik/nudnik/internal/config"
	domain "github.com/nudnik/nudnik/internal/domain/alarm"
	"github.com/nudnik/nudnik/internal/logger"
	"github.com/nudnik/nudnik/internal/recurrence"
	"github.com/nudnik/nudnik/internal/service/common"
)

// Options configures the client commands shared behaviour.
type Options struct {
	// ConfigPath to the YAML settings file, defaults to the standard filename if empty.
	ConfigPath string
	// ServerAddress overrides the server address from config when specified.
	ServerAddress string
}

// AddOptions carries the flags of the add and update commands.
type AddOptions struct {
	Options

	// Name is the optional display label.
	Name string
	// At is the alarm time of day in "HH:MM" form.
	At string
	// Days are the active weekday indices, 0 is Sunday through 6 is Saturday.
	Days []int
	// Task selects the wake-up challenge: none, math, qrCode or barCode.
	Task string
	// Difficulty tunes the math challenge.
	Difficulty string
	// Code is the expected scan result for QR and barcode tasks.
	Code string
	// Disabled creates the alarm without arming it.
	Disabled bool
	// SnoozeDuration is the snooze interval in minutes.
	SnoozeDuration int
	// NoSnooze turns snoozing off for the alarm.
	NoSnooze bool
}

// WatchOptions carries the flags of the watch command.
type WatchOptions struct {
	Options

	// PollInterval defines the interval between alarm list refreshes.
	PollInterval time.Duration
}

// DefaultPollInterval is the fixed refresh interval for the watch command.
const DefaultPollInterval = 30 * time.Second

// errNoAnswer is returned when dismissing a math alarm without an answer.
var errNoAnswer = errors.New("a math alarm needs --answer to be dismissed")

// dial loads settings and connects a client to the alarm server.
// An explicit server address works without a readable settings file.
func dial(opts *Options) (*common.Client, error) {
	serverAddress := opts.ServerAddress
	timeout := config.DefaultTimeout

	cfg, err := config.Load(opts.ConfigPath)
	switch {
	case err == nil:
		timeout = cfg.Timeout

		if serverAddress == "" {
			serverAddress = cfg.ListenAddress
		}
	case serverAddress == "":
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return common.NewClient(serverAddress, common.WithCallTimeout(timeout))
}

// RunList prints the alarm collection with each alarm's next fire time.
func RunList(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "nudnikctl")

	client, err := dial(opts)
	if err != nil {
		return err
	}

	alarms, err := client.ListAlarms(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDAYS\tENABLED\tTASK\tNEXT\tNAME")

	now := time.Now()

	for _, a := range alarms {
		next := "-"

		if a.Enabled {
			at, err := recurrence.NextFireTime(a.Time, a.Recurrence.Days, now)
			if err == nil {
				next = at.Format("Mon 15:04")
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\t%s\n",
			a.ID,
			a.Time.Format("15:04"),
			formatDays(a.Recurrence.Days),
			a.Enabled,
			a.Task.Type,
			next,
			a.Name,
		)
	}

	return w.Flush()
}

// RunAdd creates an alarm from the command line flags.
func RunAdd(ctx context.Context, opts *AddOptions) error {
	ctx = logger.WithName(ctx, "nudnikctl")

	draft, err := buildDraft(opts)
	if err != nil {
		return err
	}

	client, err := dial(&opts.Options)
	if err != nil {
		return err
	}

	created, err := client.AddAlarm(ctx, draft)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Alarm created", "alarm_id", created.ID, "time", created.Time.Format("15:04"))
	fmt.Println(created.ID)

	return nil
}

// RunToggle enables or disables the alarm.
func RunToggle(ctx context.Context, opts *Options, id string, enabled bool) error {
	ctx = logger.WithName(ctx, "nudnikctl")

	client, err := dial(opts)
	if err != nil {
		return err
	}

	toggled, err := client.ToggleAlarm(ctx, id, enabled)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Alarm toggled", "alarm_id", toggled.ID, "enabled", toggled.Enabled)

	return nil
}

// RunDelete removes the alarm from the collection.
func RunDelete(ctx context.Context, opts *Options, id string) error {
	ctx = logger.WithName(ctx, "nudnikctl")

	client, err := dial(opts)
	if err != nil {
		return err
	}

	if err := client.DeleteAlarm(ctx, id); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Alarm deleted", "alarm_id", id)

	return nil
}

// RunSnooze arms the alarm's snooze notification.
func RunSnooze(ctx context.Context, opts *Options, id string) error {
	ctx = logger.WithName(ctx, "nudnikctl")

	client, err := dial(opts)
	if err != nil {
		return err
	}

	firesAt, err := client.SnoozeAlarm(ctx, id)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Alarm snoozed", "alarm_id", id, "fires_at", firesAt.Format(time.RFC3339))

	return nil
}

// RunDismiss attempts to dismiss a firing alarm. For math alarms without an
// answer it prints the current problem instead.
func RunDismiss(ctx context.Context, opts *Options, id string, answer *int, code string) error {
	ctx = logger.WithName(ctx, "nudnikctl")

	client, err := dial(opts)
	if err != nil {
		return err
	}

	info, err := client.Challenge(ctx, id)
	if err != nil {
		return err
	}

	if info.Type == domain.TaskMath && answer == nil {
		fmt.Println(info.Question)

		return errNoAnswer
	}

	outcome, err := client.Dismiss(ctx, id, challenge.Attempt{Answer: answer, Code: code})
	if err != nil {
		return err
	}

	if !outcome.Dismissed {
		if outcome.Question != "" {
			fmt.Println(outcome.Question)
		}

		logger.Warn(ctx, "Dismissal attempt rejected, try again")

		return nil
	}

	logger.InfoKV(ctx, "Alarm dismissed", "alarm_id", id)

	return nil
}

// RunWatch polls the server and reports the next upcoming alarm until the
// context is cancelled.
func RunWatch(ctx context.Context, opts *WatchOptions) error {
	ctx = logger.WithName(ctx, "nudnikctl")

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	client, err := dial(&opts.Options)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Watching alarms", "interval", opts.PollInterval.String())

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		reportUpcoming(ctx, client)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// reportUpcoming logs the soonest upcoming alarm, if any.
func reportUpcoming(ctx context.Context, client *common.Client) {
	alarms, err := client.ListAlarms(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to list alarms", "error", err)

		return
	}

	var (
		soonest   time.Time
		soonestID string
		now       = time.Now()
	)

	for _, a := range alarms {
		if !a.Enabled {
			continue
		}

		next, err := recurrence.NextFireTime(a.Time, a.Recurrence.Days, now)
		if err != nil {
			continue
		}

		if soonest.IsZero() || next.Before(soonest) {
			soonest = next
			soonestID = a.ID
		}
	}

	if soonest.IsZero() {
		logger.Info(ctx, "No enabled alarms")

		return
	}

	logger.InfoKV(ctx, "Next alarm", "alarm_id", soonestID, "fires_at", soonest.Format(time.RFC1123), "in", time.Until(soonest).Round(time.Second).String())
}

// buildDraft converts the add command flags into an alarm draft.
func buildDraft(opts *AddOptions) (domain.Draft, error) {
	at, err := time.Parse("15:04", opts.At)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("invalid --at value %q, want HH:MM: %w", opts.At, err)
	}

	now := time.Now()
	timeOfDay := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())

	taskType := domain.TaskType(opts.Task)
	if opts.Task == "" {
		taskType = domain.TaskNone
	}

	snoozeDuration := opts.SnoozeDuration
	if snoozeDuration == 0 {
		snoozeDuration = 9
	}

	draft := domain.Draft{
		Name:    opts.Name,
		Time:    timeOfDay,
		Enabled: !opts.Disabled,
		Recurrence: domain.Recurrence{
			Days: opts.Days,
		},
		Task: domain.Task{
			Type:       taskType,
			Difficulty: opts.Difficulty,
			Code:       opts.Code,
		},
		SnoozeEnabled:  !opts.NoSnooze,
		SnoozeDuration: snoozeDuration,
	}

	if err := draft.Validate(); err != nil {
		return domain.Draft{}, err
	}

	return draft, nil
}

// dayNames renders weekday indices for the list output.
var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// formatDays renders the recurrence day set, "once" for the empty set.
func formatDays(days []int) string {
	if len(days) == 0 {
		return "once"
	}

	sorted := make([]int, len(days))
	copy(sorted, days)
	sort.Ints(sorted)

	names := make([]string, 0, len(sorted))

	for _, d := range sorted {
		if d >= 0 && d < len(dayNames) {
			names = append(names, dayNames[d])
		}
	}

	return strings.Join(names, ",")
}
