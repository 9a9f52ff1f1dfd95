package history

import (
	"context"
	"slices"
	"time"

	"semant/internal/core/diag"
)

// Adapter records analysis runs, translating diag reports into rows.
type Adapter struct {
	store *Store
}

func NewAdapter(store *Store) *Adapter {
	return &Adapter{store: store}
}

// Record stores one run and returns its id.
func (a *Adapter) Record(ctx context.Context, inputs []string, classCount int, reports []diag.Report, elapsed time.Duration) (string, error) {
	run := Run{
		Inputs:     inputs,
		ClassCount: classCount,
		Duration:   elapsed,
		Passed:     true,
	}
	rows := make([]Report, 0, len(reports))
	for _, r := range reports {
		switch {
		case r.Severity >= diag.SeverityError:
			run.ErrorCount++
			run.Passed = false
		case r.Severity == diag.SeverityWarning:
			run.WarningCount++
		}
		rows = append(rows, Report{
			Severity: int(r.Severity),
			Category: string(r.Category),
			File:     r.File,
			Line:     r.Line,
			Message:  r.Message,
		})
	}
	return a.store.SaveRun(ctx, run, rows)
}

// Trend returns the last n runs, oldest first, with deltas.
func (a *Adapter) Trend(ctx context.Context, n int) ([]TrendPoint, error) {
	runs, err := a.store.RecentRuns(ctx, n)
	if err != nil {
		return nil, err
	}
	slices.Reverse(runs)
	return BuildTrend(runs), nil
}

// Reports loads the stored reports of a run back as diag reports.
func (a *Adapter) Reports(ctx context.Context, runID string) ([]diag.Report, error) {
	rows, err := a.store.RunReports(ctx, runID)
	if err != nil {
		return nil, err
	}
	out := make([]diag.Report, 0, len(rows))
	for _, r := range rows {
		out = append(out, diag.Report{
			Severity: diag.Severity(r.Severity),
			Category: diag.Category(r.Category),
			File:     r.File,
			Line:     r.Line,
			Message:  r.Message,
		})
	}
	return out, nil
}
