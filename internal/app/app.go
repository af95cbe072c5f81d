package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/topology"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	source topology.Source
}

// NewApp is the constructor for the main application. Command output goes
// to outW and logs to logW. A nil source selects the topology source named
// by the configuration: the workspace info file when set, otherwise the
// package manager command.
func NewApp(outW, logW io.Writer, cfg *Config, source topology.Source) *App {
	logger := newLogger(cfg, logW)
	logger.Debug("Logger configured successfully.")

	if source == nil {
		if cfg.WorkspaceInfo != "" {
			source = topology.FileSource{Path: cfg.WorkspaceInfo}
		} else {
			source = topology.CommandSource{Command: cfg.TopologyCommand}
		}
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		source: source,
	}
}

// Config returns the application's configuration. This is primarily for
// testing.
func (a *App) Config() *Config {
	return a.config
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger.With("root", filepath.Base(a.config.Root)))
}
