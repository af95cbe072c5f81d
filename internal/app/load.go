package app

import (
	"context"
	"fmt"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// loadUnits reads the workspace topology and classifies its packages.
// Dependency cycles are logged, or returned as an error with FailOnCycle.
func (a *App) loadUnits(ctx context.Context) (*workspace.UnitSet, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading workspace topology...")

	mapping, err := a.source.Load(ctx, a.config.Root)
	if err != nil {
		return nil, err
	}
	graph, err := workspace.New(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to build workspace graph: %w", err)
	}
	if len(a.config.Ignore) > 0 {
		graph = graph.Without(a.config.Ignore...)
		logger.Debug("Ignore list applied.", "ignore", a.config.Ignore, "remaining", graph.Len())
	}

	classifier := workspace.Classifier{
		ConfigPath: a.config.TSConfigPath,
		Limit:      a.config.Concurrency,
	}
	units, ignored, err := classifier.Classify(ctx, a.config.Root, graph)
	if err != nil {
		return nil, fmt.Errorf("failed to classify packages: %w", err)
	}
	ignoredNames := make([]string, 0, len(ignored))
	for _, rec := range ignored {
		ignoredNames = append(ignoredNames, rec.Name)
	}
	logger.Debug("Found packages without a configuration file, ignoring them.", "count", len(ignored))
	logger.Debug("Packages without a configuration file.", "names", ignoredNames)

	if err := workspace.CheckCycles(units); err != nil {
		if a.config.FailOnCycle {
			return nil, err
		}
		logger.Warn("Workspace has dependency cycles; references are written as declared.", "error", err)
	}
	return units, nil
}
