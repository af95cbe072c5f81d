package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/aggregate"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/batch"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/configdoc"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/refs"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/tsconfig"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// ErrOutOfDate is returned in check mode when at least one configuration
// file would be rewritten.
var ErrOutOfDate = errors.New("configuration files are out of date")

// InjectRefs marks every unit composite and rewrites its references from
// the workspace dependency graph. With GenerateBuildAll the aggregate
// configuration is written at the workspace root as well.
func (a *App) InjectRefs(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running command inject-refs.", "generate_build_all", a.config.GenerateBuildAll)

	units, err := a.loadUnits(ctx)
	if err != nil {
		return err
	}

	injector := refs.Injector{Units: units}
	report := a.applyAll(ctx, units, injector.Transform)

	roots := aggregate.Roots(units)
	fmt.Fprintf(a.outW, "Done! %d packages\n", units.Len())
	fmt.Fprintf(a.outW, "Top Level Packages Count: %d\n", len(roots))

	var stale []string
	switch {
	case !a.config.GenerateBuildAll:
	case a.readOnly():
		ok, err := aggregate.UpToDate(a.config.Root, a.config.BuildAllFile, roots)
		if err != nil {
			return errors.Join(report.Err(), err)
		}
		if !ok {
			stale = append(stale, a.config.BuildAllFile)
		}
	default:
		path, err := aggregate.Write(a.config.Root, a.config.BuildAllFile, roots)
		if err != nil {
			return errors.Join(report.Err(), err)
		}
		logger.Debug("Aggregate configuration written.", "path", path, "references", len(roots))
		fmt.Fprintf(a.outW, "%s created/updated\n", filepath.Base(path))
	}
	return a.finish(ctx, report, stale...)
}

// SetCompilerOption sets the string option name under compilerOptions in
// every unit. A nil value deletes the option.
func (a *App) SetCompilerOption(ctx context.Context, name string, value *string) error {
	ctx = a.withLogger(ctx)
	ctxlog.FromContext(ctx).Debug("Setting compiler option.", "option", name, "delete", value == nil)

	units, err := a.loadUnits(ctx)
	if err != nil {
		return err
	}
	report := a.applyAll(ctx, units, func(_ context.Context, doc *configdoc.Document, _ workspace.PackageRecord) error {
		return tsconfig.SetStringOption(doc, name, value)
	})
	fmt.Fprintf(a.outW, "Done! %d packages\n", units.Len())
	return a.finish(ctx, report)
}

// SetExtends points the root "extends" of every unit at target, a file given
// as an absolute path or relative to the workspace root. Each unit gets the
// path relative to its own directory. A nil target deletes "extends".
func (a *App) SetExtends(ctx context.Context, target *string) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	var rootRelative string
	if target != nil {
		rootRelative = *target
		if filepath.IsAbs(rootRelative) {
			rel, err := filepath.Rel(a.config.Root, rootRelative)
			if err != nil {
				return fmt.Errorf("extends target %s: %w", rootRelative, err)
			}
			rootRelative = rel
		}
		logger.Debug("Setting extends.", "target", rootRelative)
	} else {
		logger.Debug("Deleting extends.")
	}

	units, err := a.loadUnits(ctx)
	if err != nil {
		return err
	}
	report := a.applyAll(ctx, units, func(_ context.Context, doc *configdoc.Document, unit workspace.PackageRecord) error {
		if target == nil {
			return tsconfig.SetRootStringOption(doc, tsconfig.ExtendsKey, nil)
		}
		p := extendsPath(unit.Location, rootRelative)
		return tsconfig.SetRootStringOption(doc, tsconfig.ExtendsKey, &p)
	})
	fmt.Fprintf(a.outW, "Done! %d packages\n", units.Len())
	return a.finish(ctx, report)
}

// extendsPath is the path from the unit directory to target. It always
// starts with a dot so the compiler does not resolve it as a package name.
func extendsPath(unitLocation, target string) string {
	p := refs.Relative(unitLocation, target)
	if p == "." || p == ".." || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		return p
	}
	return "./" + p
}

func (a *App) readOnly() bool {
	return a.config.DryRun || a.config.Check
}

// applyAll runs transform on the configuration file of every unit.
func (a *App) applyAll(ctx context.Context, units *workspace.UnitSet, transform tsconfig.Transform) *batch.Report {
	runner := batch.Runner{Limit: a.config.Concurrency}
	return runner.Run(ctx, units.Units(), func(ctx context.Context, unit workspace.PackageRecord) (batch.Result, error) {
		path := unit.ConfigFile(a.config.Root, a.config.TSConfigPath)
		changed, err := tsconfig.ApplyFile(ctx, path, unit, transform, a.readOnly())
		return batch.Result{Path: path, Changed: changed}, err
	})
}

// finish reports the outcome of a batch and turns it into the command's
// error. stale names generated files that are out of date besides the
// units in the report.
func (a *App) finish(ctx context.Context, report *batch.Report, stale ...string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Batch finished.",
		"processed", report.Processed,
		"changed", len(report.Changed),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped),
	)

	outdated := append(append([]string(nil), report.Changed...), stale...)
	if a.readOnly() {
		for _, name := range outdated {
			fmt.Fprintf(a.outW, "would update %s\n", name)
		}
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("%d of %d packages failed: %w", len(report.Failed), report.Processed+len(report.Skipped), err)
	}
	if a.config.Check && len(outdated) > 0 {
		return fmt.Errorf("%w: %s", ErrOutOfDate, strings.Join(outdated, ", "))
	}
	return nil
}
