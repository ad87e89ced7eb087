package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/surfacemail/internal/app"
	"github.com/Iron-Ham/surfacemail/internal/bridge"
	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/logging"
	"github.com/Iron-Ham/surfacemail/internal/mailbox"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
	"github.com/Iron-Ham/surfacemail/internal/surface"
	"github.com/Iron-Ham/surfacemail/internal/tui"
)

// reloadPushTimeout bounds how long a config reload waits for room in the
// queue before it is dropped.
const reloadPushTimeout = time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the coordinator",
	Long: `Run the coordinator with a live surface monitor.

The monitor lists surfaces as the coordinator reports them and sends
new_surface, close, present_surface and ring_bell messages through the same
mailboxes any other producer uses. With --headless no monitor is shown and
the coordinator runs until interrupted.

When a config file is in use it is watched, and changes are applied to the
running coordinator and every surface.

Examples:
  # Start with two windows and the monitor
  surfacemail run --windows 2

  # Run headless, streaming surface events as CBOR frames to a FIFO
  surfacemail run --headless --bridge /tmp/surfaces.fifo`,
	RunE: runRun,
}

var (
	runHeadless    bool
	runBridgePath  string
	runWindows     int
	runMemoryLimit int
	runNoWatch     bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Run without the monitor")
	runCmd.Flags().StringVar(&runBridgePath, "bridge", "", "Write surface events as CBOR frames to this file")
	runCmd.Flags().IntVar(&runWindows, "windows", 1, "Number of windows to open at startup")
	runCmd.Flags().IntVar(&runMemoryLimit, "memory-limit", 0, "Cap config memory in bytes (0 for no cap)")
	runCmd.Flags().BoolVar(&runNoWatch, "no-watch", false, "Do not reload the config file when it changes")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	alloc := allocator(runMemoryLimit)
	base, err := config.Load(alloc)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(base)
	if err != nil {
		_ = base.Release()
		return err
	}
	defer func() { _ = logger.Close() }()

	bus := event.NewBus(event.WithLogger(logger))
	a, err := app.New(base,
		app.WithBus(bus),
		app.WithLogger(logger),
		app.WithAllocator(alloc),
		app.WithClipboard(surface.NewMemoryClipboard()),
	)
	if err != nil {
		_ = base.Release()
		return err
	}

	if runBridgePath != "" {
		f, err := os.OpenFile(runBridgePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			a.Shutdown()
			return fmt.Errorf("failed to open bridge output: %w", err)
		}
		defer f.Close()

		b := bridge.New(bus, f, bridge.WithLogger(logger))
		if err := b.Start(); err != nil {
			a.Shutdown()
			return err
		}
		defer b.Stop()
	}

	if path := viper.ConfigFileUsed(); path != "" && !runNoWatch {
		w, err := watchConfig(path, alloc, a, logger)
		if err != nil {
			logger.Warn("config file will not be reloaded", "path", path, "error", err)
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	// The monitor subscribes before anything is published.
	var monitor *tui.Monitor
	if !runHeadless {
		monitor = tui.NewMonitor(ctx, bus, a)
	}

	for range runWindows {
		msg := message.NewNewSurface(config.ContextWindow)
		if _, err := a.Mailbox(mailbox.AppTarget).Push(msg, queue.Instant()); err != nil {
			logger.Warn("initial window not opened", "error", err)
		}
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	if monitor == nil {
		p := newPrinter(cmd)
		p.printf("Coordinator running with %d window(s). Press Ctrl+C to stop.\n", runWindows)
		err = <-done
	} else {
		err = monitor.Run()
		a.Quit()
		if runErr := <-done; err == nil {
			err = runErr
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchConfig reloads path on change and hands each new config to the
// coordinator as a config_change message.
func watchConfig(path string, alloc config.Allocator, a *app.App, logger *logging.Logger) (*config.Watcher, error) {
	appMailbox := a.Mailbox(mailbox.AppTarget)

	onChange := func(cfg *config.Config) {
		msg, err := message.NewConfigChange(cfg)
		if err != nil {
			_ = cfg.Release()
			logger.Error("config reload failed", "error", err)
			return
		}
		if _, err := appMailbox.Push(msg, queue.After(reloadPushTimeout)); err != nil {
			msg.Discard()
			logger.Warn("config reload dropped", "error", err)
		}
	}

	return config.NewWatcher(path, alloc, onChange,
		config.WithInitial(a.Base()),
		config.WithErrorHandler(func(err error) {
			logger.Warn("config reload failed", "path", path, "error", err)
		}),
	)
}

// newLogger creates the file logger described by cfg.Logging, in the
// state directory.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	dir := config.StateDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return logging.NewLogger(logging.Options{
		Dir:   dir,
		Level: cfg.Logging.Level,
		Rotation: logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		},
	})
}

// allocator returns a Budget capped at limit bytes, or the heap when limit
// is not positive.
func allocator(limit int) config.Allocator {
	if limit > 0 {
		return config.NewBudget(limit)
	}
	return config.Heap
}
