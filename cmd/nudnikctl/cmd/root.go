package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nudnik/nudnik/internal/config"
	"github.com/nudnik/nudnik/internal/service/client"
	"github.com/nudnik/nudnik/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// serverAddress overrides the server address from config.
	serverAddress string

	// addName is the alarm label for the add command.
	addName string
	// addAt is the alarm time of day for the add command.
	addAt string
	// addDays are the active weekday indices for the add command.
	addDays []int
	// addTask selects the wake-up challenge for the add command.
	addTask string
	// addDifficulty tunes the math challenge for the add command.
	addDifficulty string
	// addCode is the expected scan result for the add command.
	addCode string
	// addDisabled creates the alarm without arming it.
	addDisabled bool
	// addSnoozeDuration is the snooze interval in minutes.
	addSnoozeDuration int
	// addNoSnooze turns snoozing off for the alarm.
	addNoSnooze bool

	// dismissAnswer is the math answer for the dismiss command.
	dismissAnswer int
	// dismissCode is the scanned code for the dismiss command.
	dismissCode string

	// watchInterval is the refresh interval for the watch command.
	watchInterval time.Duration

	// rootCmd represents the base command for managing alarms.
	rootCmd = &cobra.Command{
		Use:   "nudnikctl",
		Short: "Manage alarms on a nudnik server.",
		Long: `Command line client for the nudnik alarm server.

Lists, creates, toggles, deletes, snoozes and dismisses alarms over HTTP.
Server address is taken from the configuration file unless overridden with --server.`,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List alarms with their next fire times.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := commandContext()
			defer stop()

			return client.RunList(ctx, commonOptions())
		},
	}

	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Create an alarm.",
		Long: `Creates an alarm from the given flags and prints its identifier.

An empty --days list makes a one-shot alarm that disables itself after firing.
QR and barcode tasks need --code, the expected scan result.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := commandContext()
			defer stop()

			return client.RunAdd(ctx, &client.AddOptions{
				Options:        *commonOptions(),
				Name:           addName,
				At:             addAt,
				Days:           addDays,
				Task:           addTask,
				Difficulty:     addDifficulty,
				Code:           addCode,
				Disabled:       addDisabled,
				SnoozeDuration: addSnoozeDuration,
				NoSnooze:       addNoSnooze,
			})
		},
	}

	enableCmd = &cobra.Command{
		Use:   "enable <alarm-id>",
		Short: "Enable an alarm and arm its timer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			return client.RunToggle(ctx, commonOptions(), args[0], true)
		},
	}

	disableCmd = &cobra.Command{
		Use:   "disable <alarm-id>",
		Short: "Disable an alarm and cancel its timer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			return client.RunToggle(ctx, commonOptions(), args[0], false)
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <alarm-id>",
		Short: "Delete an alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			return client.RunDelete(ctx, commonOptions(), args[0])
		},
	}

	snoozeCmd = &cobra.Command{
		Use:   "snooze <alarm-id>",
		Short: "Snooze a firing alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			return client.RunSnooze(ctx, commonOptions(), args[0])
		},
	}

	dismissCmd = &cobra.Command{
		Use:   "dismiss <alarm-id>",
		Short: "Dismiss a firing alarm.",
		Long: `Attempts to dismiss a firing alarm.

Math alarms need --answer, scan alarms need --code. For a math alarm without
an answer the current problem is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			var answer *int
			if cobraCmd.Flags().Changed("answer") {
				answer = &dismissAnswer
			}

			ctx, stop := commandContext()
			defer stop()

			return client.RunDismiss(ctx, commonOptions(), args[0], answer, dismissCode)
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Report the next upcoming alarm until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := commandContext()
			defer stop()

			return client.RunWatch(ctx, &client.WatchOptions{
				Options:      *commonOptions(),
				PollInterval: watchInterval,
			})
		},
	}
)

// commandContext wires OS signals into command cancellation. Callers must
// defer the returned stop function.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// commonOptions collects the persistent flags shared by every subcommand.
func commonOptions() *client.Options {
	return &client.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
	}
}

// Execute runs the nudnikctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup persistent flags shared by all subcommands.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "server address, overrides config")

	addCmd.Flags().StringVarP(&addName, "name", "n", "", "alarm label")
	addCmd.Flags().StringVarP(&addAt, "at", "t", "", "time of day in HH:MM form")
	addCmd.Flags().IntSliceVarP(&addDays, "days", "d", nil, "active weekdays, 0=Sunday through 6=Saturday")
	addCmd.Flags().StringVar(&addTask, "task", "none", "wake-up challenge: none, math, qrCode or barCode")
	addCmd.Flags().StringVar(&addDifficulty, "difficulty", "easy", "math challenge difficulty: easy, medium or hard")
	addCmd.Flags().StringVar(&addCode, "code", "", "expected scan result for qrCode and barCode tasks")
	addCmd.Flags().BoolVar(&addDisabled, "disabled", false, "create the alarm without arming it")
	addCmd.Flags().IntVar(&addSnoozeDuration, "snooze-duration", 9, "snooze interval in minutes")
	addCmd.Flags().BoolVar(&addNoSnooze, "no-snooze", false, "turn snoozing off for the alarm")

	if err := addCmd.MarkFlagRequired("at"); err != nil {
		panic(err)
	}

	dismissCmd.Flags().IntVarP(&dismissAnswer, "answer", "a", 0, "answer to the math challenge")
	dismissCmd.Flags().StringVar(&dismissCode, "code", "", "scanned QR or barcode value")

	watchCmd.Flags().
		DurationVarP(&watchInterval, "interval", "i", client.DefaultPollInterval, "refresh interval")

	rootCmd.AddCommand(listCmd, addCmd, enableCmd, disableCmd, deleteCmd, snoozeCmd, dismissCmd, watchCmd)
}
