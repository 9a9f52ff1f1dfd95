package history

import (
	"time"
)

// SchemaVersion is the newest migration this package knows about.
const SchemaVersion = 2

// Run is one analysis run.
type Run struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	Inputs       []string      `json:"inputs"`
	ClassCount   int           `json:"class_count"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
	Passed       bool          `json:"passed"`
	Duration     time.Duration `json:"duration"`
}

// Report is one stored finding of a run, in registration order.
type Report struct {
	RunID    string `json:"run_id"`
	Seq      int    `json:"seq"`
	Severity int    `json:"severity"`
	Category string `json:"category"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

// TrendPoint compares a run with the run before it.
type TrendPoint struct {
	Run         Run `json:"run"`
	DeltaErrors int `json:"delta_errors"`
	DeltaClass  int `json:"delta_classes"`
}

// BuildTrend pairs each run with its change from the previous one. Runs
// must be ordered oldest first; the first point has zero deltas.
func BuildTrend(runs []Run) []TrendPoint {
	points := make([]TrendPoint, 0, len(runs))
	for i, run := range runs {
		p := TrendPoint{Run: run}
		if i > 0 {
			prev := runs[i-1]
			p.DeltaErrors = run.ErrorCount - prev.ErrorCount
			p.DeltaClass = run.ClassCount - prev.ClassCount
		}
		points = append(points, p)
	}
	return points
}
