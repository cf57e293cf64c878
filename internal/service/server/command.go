package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nudnik/nudnik/internal/api/rest"
	"github.com/nudnik/nudnik/internal/config"
	"github.com/nudnik/nudnik/internal/logger"
	repository "github.com/nudnik/nudnik/internal/repository/alarms"
	"github.com/nudnik/nudnik/internal/scheduler"
)

// Options controls the nudnik-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the HTTP server.
	ListenAddress string
	// AlarmsFile specifies the path to persist the alarm collection JSON.
	AlarmsFile string
}

// shutdownTimeout bounds the graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Run starts the HTTP server and blocks until the context is canceled or the
// server stops. Configuration is loaded first; command line options override
// individual settings.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "nudnik-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Use the alarms file from config unless overridden on the command line.
	alarmsFile := settings.AlarmsFile
	if opts.AlarmsFile != "" {
		alarmsFile = opts.AlarmsFile
	}

	// Same for the listen address.
	listenAddress := settings.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	// Initialize the alarm collection repository.
	repo := repository.NewFileRepository(alarmsFile)

	// Notifications are armed as in-process timers; the service consumes
	// the fires, so the sink is wired after the service exists.
	sched := scheduler.NewTimerScheduler(nil)
	defer sched.Shutdown()

	svc, err := newService(ctx, repo, sched)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	sched.SetFireFunc(svc.handleFire)

	// Restored alarms get their notifications re-armed on every start.
	svc.RearmAll(ctx)

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           rest.NewServer(svc).Handler(),
		ReadHeaderTimeout: settings.Timeout,
	}

	logger.InfoKV(ctx, "Nudnik server listening", "listen_address", listenAddress, "alarms_file", alarmsFile)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf(ctx, "HTTP server shutdown: %v", err)
		}

		close(done)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}
