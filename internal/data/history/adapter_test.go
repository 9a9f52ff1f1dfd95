package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"semant/internal/core/diag"
)

func TestAdapter_RecordAndReadBack(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	adapter := NewAdapter(store)
	reports := []diag.Report{
		{Severity: diag.SeverityError, Category: diag.CategoryType, File: "Main.btm", Line: 7, Message: "Type of variable incompatible with assignment."},
		{Severity: diag.SeverityWarning, Category: diag.CategoryNaming, Message: "unused"},
		{Severity: diag.SeverityError, Category: diag.CategoryHierarchy, Message: "Valid programs must have a 'Main' class with a 'main' method."},
	}

	id, err := adapter.Record(ctx, []string{"Main.ast.json"}, 12, reports, 40*time.Millisecond)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	points, err := adapter.Trend(ctx, 5)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 run, got %d", len(points))
	}
	run := points[0].Run
	if run.ID != id || run.Passed || run.ErrorCount != 2 || run.WarningCount != 1 || run.ClassCount != 12 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Duration != 40*time.Millisecond {
		t.Fatalf("expected duration to roundtrip, got %v", run.Duration)
	}

	back, err := adapter.Reports(ctx, id)
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	if len(back) != len(reports) {
		t.Fatalf("expected %d reports, got %d", len(reports), len(back))
	}
	for i := range reports {
		if back[i] != reports[i] {
			t.Fatalf("report %d: expected %+v, got %+v", i, reports[i], back[i])
		}
	}
}

func TestAdapter_CleanRunPasses(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	adapter := NewAdapter(store)
	if _, err := adapter.Record(context.Background(), nil, 11, nil, 0); err != nil {
		t.Fatal(err)
	}
	runs, err := store.RecentRuns(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || !runs[0].Passed || len(runs[0].Inputs) != 0 {
		t.Fatalf("unexpected run: %+v", runs)
	}
}
