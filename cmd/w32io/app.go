package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/desertwitch/w32io/internal/configuration"
	"github.com/desertwitch/w32io/internal/schema"
	"github.com/desertwitch/w32io/internal/w32file"
)

// App holds the state shared by all subcommands of one invocation.
type App struct {
	envFiles   []string
	debug      bool
	cpuprofile string

	fileHandler *w32file.Handler
	cpuProfiler *CPUProfiler
	memObserver *memoryObserver
}

// Setup reads the options and establishes the file handler. It is run once
// before any subcommand.
func (app *App) Setup(ctx context.Context) error {
	if app.debug {
		setupLogging(slog.LevelDebug)
		app.memObserver = newMemoryObserver(ctx)
	}

	app.cpuProfiler = NewCPUProfiler(ctx, app.cpuprofile)

	osProvider := &schema.OS{}
	unixProvider := &schema.Unix{}
	configHandler := configuration.NewHandler(&configuration.GodotenvProvider{}, osProvider, unixProvider)

	opts, err := configHandler.ReadOptions(app.envFiles...)
	if err != nil {
		return fmt.Errorf("(app-setup) %w", err)
	}

	slog.Debug("Options established.",
		"iomap", opts.IOMap.String(),
		"strict", opts.StrictLocking,
		"fdReserve", opts.FDReserve,
	)

	app.fileHandler = w32file.NewHandler(*opts, osProvider, unixProvider)

	return nil
}

// Close releases all handles still open and stops the profilers.
func (app *App) Close() {
	if app.fileHandler != nil {
		if n := app.fileHandler.OpenHandles(); n > 0 {
			slog.Debug("Closing remaining handles.", "count", n)
		}
		app.fileHandler.Shutdown()
	}

	if app.cpuProfiler != nil {
		app.cpuProfiler.Stop()
	}

	if app.memObserver != nil {
		app.memObserver.Stop()
	}
}
