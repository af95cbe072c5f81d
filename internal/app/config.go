package app

import (
	"errors"
	"fmt"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/aggregate"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/batch"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/config"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Root         string // workspace root
	TSConfigPath string // configuration file inside each package

	Concurrency int
	LogFormat   string
	LogLevel    string

	GenerateBuildAll bool
	BuildAllFile     string
	Ignore           []string

	TopologyCommand []string
	WorkspaceInfo   string // static topology file, replaces the command

	DryRun      bool
	Check       bool
	FailOnCycle bool
}

// DefaultConfig returns the built-in defaults for the workspace at root.
func DefaultConfig(root string) Config {
	return Config{
		Root:         root,
		TSConfigPath: workspace.DefaultConfigPath,
		Concurrency:  batch.DefaultLimit,
		LogFormat:    "text",
		LogLevel:     "info",
		BuildAllFile: aggregate.DefaultFileName,
	}
}

// Apply overlays every field set in m onto cfg.
func (cfg *Config) Apply(m *config.Model) {
	if m == nil {
		return
	}
	if m.TSConfigPath != nil {
		cfg.TSConfigPath = *m.TSConfigPath
	}
	if m.Concurrency != nil {
		cfg.Concurrency = *m.Concurrency
	}
	if m.LogLevel != nil {
		cfg.LogLevel = *m.LogLevel
	}
	if m.LogFormat != nil {
		cfg.LogFormat = *m.LogFormat
	}
	if m.GenerateBuildAll != nil {
		cfg.GenerateBuildAll = *m.GenerateBuildAll
	}
	if m.BuildAllFile != nil {
		cfg.BuildAllFile = *m.BuildAllFile
	}
	cfg.Ignore = append(cfg.Ignore, m.Ignore...)
	if m.Topology != nil {
		if len(m.Topology.Command) > 0 {
			cfg.TopologyCommand = m.Topology.Command
		}
		if m.Topology.File != nil {
			cfg.WorkspaceInfo = *m.Topology.File
		}
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		return nil, errors.New("workspace root is a required configuration field and cannot be empty")
	}
	if cfg.TSConfigPath == "" {
		return nil, errors.New("tsconfig path cannot be empty")
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if _, err := parseLogFormat(cfg.LogFormat); err != nil {
		return nil, err
	}
	if cfg.BuildAllFile == "" {
		cfg.BuildAllFile = aggregate.DefaultFileName
	}
	return &cfg, nil
}
