package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/segprep/internal/config"
	"github.com/specialistvlad/segprep/internal/launcher"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	runner launcher.Runner
}

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the process runner used by the finetune command.
func WithRunner(r launcher.Runner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp is the constructor for the main application. Logs, launched commands
// and the output of child processes all go to outW.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.runner == nil {
		if cfg.DryRun {
			a.runner = launcher.DryRunner{}
		} else {
			a.runner = launcher.NewExecRunner(outW, os.Stderr)
		}
	}
	return a
}
