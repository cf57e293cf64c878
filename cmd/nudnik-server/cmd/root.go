package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nudnik/nudnik/internal/config"
	"github.com/nudnik/nudnik/internal/service/server"
	"github.com/nudnik/nudnik/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// alarmsFile path where the alarm collection is persisted.
	alarmsFile string

	// rootCmd represents the base command for running the alarm server.
	rootCmd = &cobra.Command{
		Use:   "nudnik-server [listen-address]",
		Short: "Run the alarm server and manage the alarm collection.",
		Long: `Starts the HTTP alarm server that owns the alarm collection and arms timers.

The server listens on the specified address or uses settings from configuration file.
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
Alarms are persisted to a JSON file so timers are re-armed across restarts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				AlarmsFile:    alarmsFile,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the nudnik-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&alarmsFile, "alarms-file", "s", config.DefaultAlarmsFilename, "path to persist the alarm collection")
}
