package batch

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// DefaultLimit is the number of unit operations allowed in flight when a
// Runner has no explicit limit.
const DefaultLimit = 4

// Result is what an operation reports for a unit that did not fail.
type Result struct {
	// Path is the file the operation worked on, if any.
	Path string
	// Changed is set when the operation modified (or would modify) the unit.
	Changed bool
}

// Op is the per-unit operation. It must only touch state owned by the unit.
type Op func(ctx context.Context, unit workspace.PackageRecord) (Result, error)

// Runner fans an Op out over a set of units.
type Runner struct {
	Limit int
}

// Report summarises a run. Failed and Changed are sorted by unit name.
type Report struct {
	Processed int
	Changed   []string
	Failed    []*UnitError
	Skipped   []string
	// Cause is the context error when the run was interrupted.
	Cause error
}

// Err joins every unit failure and the interruption cause, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failed)+1)
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	if r.Cause != nil {
		errs = append(errs, r.Cause)
	}
	return errors.Join(errs...)
}

// Run applies op to every unit with at most r.Limit operations in flight.
// Once ctx is done no further unit is started; those units are listed in
// Report.Skipped.
func (r Runner) Run(ctx context.Context, units []workspace.PackageRecord, op Op) *Report {
	logger := ctxlog.FromContext(ctx)
	limit := r.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	var (
		mu     sync.Mutex
		report = &Report{}
		g      errgroup.Group
	)
	g.SetLimit(limit)

	// Each slot is written by exactly one of the loop or the unit's goroutine.
	skipped := make([]bool, len(units))
	for i, unit := range units {
		if ctx.Err() != nil {
			skipped[i] = true
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				skipped[i] = true
				return nil
			}

			unitLogger := logger.With("unit", unit.Name)
			unitLogger.Debug("Processing unit.")
			res, err := op(ctx, unit)

			mu.Lock()
			defer mu.Unlock()
			report.Processed++
			if err != nil {
				unitLogger.Error("Unit operation failed.", "error", err)
				report.Failed = append(report.Failed, &UnitError{Unit: unit.Name, Path: res.Path, Err: err})
				return nil
			}
			if res.Changed {
				report.Changed = append(report.Changed, unit.Name)
			}
			unitLogger.Debug("Unit processed.", "changed", res.Changed)
			return nil
		})
	}
	// Operations never return an error to the group; siblings are not
	// cancelled by a failing unit.
	_ = g.Wait()

	for i, skip := range skipped {
		if skip {
			report.Skipped = append(report.Skipped, units[i].Name)
		}
	}
	if len(report.Skipped) > 0 {
		report.Cause = ctx.Err()
	}
	slices.Sort(report.Changed)
	slices.Sort(report.Skipped)
	slices.SortFunc(report.Failed, func(a, b *UnitError) int {
		return strings.Compare(a.Unit, b.Unit)
	})
	return report
}
