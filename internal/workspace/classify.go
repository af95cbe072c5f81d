package workspace

import (
	"context"
	"fmt"
	"os"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// DefaultConfigPath is the configuration file probed inside every package.
const DefaultConfigPath = "tsconfig.json"

// DefaultProbeLimit bounds the number of filesystem probes in flight.
const DefaultProbeLimit = 4

// ProbeFunc checks that a regular file exists at path.
type ProbeFunc func(path string) error

// Classifier partitions a workspace into buildable units and ignored
// packages by probing for the configuration file of each package.
type Classifier struct {
	// ConfigPath is the configuration file relative to each package.
	ConfigPath string
	// Limit caps concurrent probes. Values below 1 mean DefaultProbeLimit.
	Limit int
	// Probe overrides the filesystem check; nil means statFile.
	Probe ProbeFunc
}

// Classify returns the units and the ignored packages. Every package ends up
// in exactly one of the two. A failing probe only means "not a unit"; the
// sole error is the context's, when it is cancelled before all probes ran.
func (c Classifier) Classify(ctx context.Context, root string, g *Graph) (*UnitSet, []PackageRecord, error) {
	logger := ctxlog.FromContext(ctx)

	configPath := c.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	limit := c.Limit
	if limit < 1 {
		limit = DefaultProbeLimit
	}
	probe := c.Probe
	if probe == nil {
		probe = statFile
	}

	records := g.Records()
	isUnit := make([]bool, len(records))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(limit)
	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file := rec.ConfigFile(root, configPath)
			if err := probe(file); err != nil {
				logger.Debug("Package is not a unit.", "package", rec.Name, "path", file, "reason", err)
				return nil
			}
			isUnit[i] = true
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var units, ignored []PackageRecord
	for i, rec := range records {
		if isUnit[i] {
			units = append(units, rec)
		} else {
			ignored = append(ignored, rec)
		}
	}
	logger.Debug("Workspace classified.", "units", len(units), "ignored", len(ignored))
	return NewUnitSet(units), ignored, nil
}

func statFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
