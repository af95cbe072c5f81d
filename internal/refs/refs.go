// Package refs computes the project references of each buildable unit from
// the declared workspace dependencies and writes them into the unit's
// configuration.
package refs

import (
	"context"
	"path/filepath"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/configdoc"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/tsconfig"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// Paths returns the reference list of unit: one slash-separated path, relative
// to the unit's directory, per declared dependency that is itself a unit.
// The order follows the declared dependencies. Dependencies on unknown or
// non-unit packages cannot be project references and are skipped.
func Paths(ctx context.Context, units *workspace.UnitSet, unit workspace.PackageRecord) []string {
	logger := ctxlog.FromContext(ctx)

	paths := make([]string, 0, len(unit.WorkspaceDependencies))
	seen := make(map[string]struct{}, len(unit.WorkspaceDependencies))
	for _, name := range unit.WorkspaceDependencies {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		dep, ok := units.Lookup(name)
		if !ok {
			logger.Debug("Dependency is not a unit, no reference.", "package", unit.Name, "dependency", name)
			continue
		}
		paths = append(paths, Relative(unit.Location, dep.Location))
	}
	return paths
}

// Relative returns the slash-separated path from directory from to target.
// Both are interpreted relative to the same base, or both absolute.
func Relative(from, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(from), filepath.FromSlash(target))
	if err != nil {
		// Only reachable when one path is absolute and the other is not.
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// Injector writes the composite flag and the reference list of each unit.
type Injector struct {
	Units *workspace.UnitSet
}

// Transform implements tsconfig.Transform.
func (in Injector) Transform(ctx context.Context, doc *configdoc.Document, unit workspace.PackageRecord) error {
	paths := Paths(ctx, in.Units, unit)
	if err := tsconfig.EnsureComposite(doc); err != nil {
		return err
	}
	if err := tsconfig.SetReferenceList(doc, paths); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("References computed.", "package", unit.Name, "references", paths)
	return nil
}
