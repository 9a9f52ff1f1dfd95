package report

import (
	"strings"
	"testing"
	"time"

	"semant/internal/data/history"
)

func TestRenderTrendTSV(t *testing.T) {
	points := history.BuildTrend([]history.Run{
		{ID: "r1", Timestamp: time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), ClassCount: 12, ErrorCount: 3},
		{ID: "r2", Timestamp: time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), ClassCount: 13, ErrorCount: 0, Passed: true, Duration: 40 * time.Millisecond},
	})

	out, err := RenderTrendTSV(points)
	if err != nil {
		t.Fatalf("render tsv: %v", err)
	}

	body := string(out)
	if !strings.HasPrefix(body, "Timestamp\tRun\tClasses") {
		t.Fatalf("missing header in output: %s", body)
	}
	if !strings.Contains(body, "2026-02-13T00:00:00Z\tr2\t13\t0\t0\ttrue\t40\t+1\t-3\n") {
		t.Fatalf("missing row values in output: %s", body)
	}
}

func TestRenderTrendJSON(t *testing.T) {
	out, err := RenderTrendJSON(nil)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	if string(out) != "[]" {
		t.Fatalf("expected empty array, got %s", out)
	}

	out, err = RenderTrendJSON([]history.TrendPoint{{Run: history.Run{ID: "r1"}, DeltaErrors: 2}})
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	if !strings.Contains(string(out), "\"delta_errors\": 2") {
		t.Fatalf("missing delta_errors in json: %s", out)
	}
}
