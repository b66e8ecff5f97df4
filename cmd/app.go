package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/command"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/config"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/messages"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/observability"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
)

// app bundles everything a subcommand needs.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	store      storage.Store
	intervals  *storage.Intervals
	recorder   *attendance.Recorder
	ledger     *attendance.Ledger
	dispatcher *command.Dispatcher
}

// appOptions distinguish one-shot subcommands from the long-running modes.
type appOptions struct {
	// interactive keeps the configured list delay and log level.
	interactive bool
	logOut      io.Writer
}

// newApp wires storage, the attendance core and the dispatcher from cfg.
func newApp(ctx context.Context, cfg config.Config, opts appOptions) (*app, error) {
	level := cfg.Log.Level
	if !opts.interactive && !verbose {
		level = "warn"
	}
	if verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(level, cfg.Log.Format, opts.logOut)
	if err != nil {
		return nil, err
	}

	base, err := storage.BaseDir()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.StorageDSN(base))
	if err != nil {
		return nil, err
	}

	msgs, err := messages.New(cfg.MessageOverrides())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("config messages: %w", err)
	}
	format, err := attendance.ParseFormat(cfg.List.Format)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("config list.format: %w", err)
	}

	listDelay := time.Duration(cfg.List.Delay)
	if !opts.interactive {
		listDelay = -1
	}

	intervals := storage.NewIntervals(store)
	recorder := attendance.NewRecorder(intervals, time.Now)
	ledger := attendance.NewLedger(intervals)
	dispatcher := command.NewDispatcher(recorder, ledger, msgs, command.Options{
		ListDelay:  listDelay,
		ListFormat: format,
		Logger:     logger,
	})

	logger.Debug("storage opened", "driver", cfg.Storage.Driver)
	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		intervals:  intervals,
		recorder:   recorder,
		ledger:     ledger,
		dispatcher: dispatcher,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// mustApp loads the config and wires the app, exiting with status 2 when
// either fails.
func mustApp(ctx context.Context, opts appOptions) *app {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.logOut == nil {
		opts.logOut = os.Stderr
	}
	a, err := newApp(ctx, cfg, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return a
}

// currentUser resolves the acting user: --user, then $USER, then the OS account.
// A leading @ is dropped like in chat commands.
func currentUser() string {
	if name := strings.TrimPrefix(userName, "@"); name != "" {
		return name
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "me"
}
