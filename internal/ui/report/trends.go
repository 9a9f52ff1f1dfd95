package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"semant/internal/data/history"
)

func RenderTrendTSV(points []history.TrendPoint) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRun\tClasses\tErrors\tWarnings\tPassed\tDurationMS\tDeltaClasses\tDeltaErrors\n")
	for _, point := range points {
		run := point.Run
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%d\t%d\t%d\t%t\t%d\t%+d\t%+d\n",
			run.Timestamp.UTC().Format(time.RFC3339),
			run.ID,
			run.ClassCount,
			run.ErrorCount,
			run.WarningCount,
			run.Passed,
			run.Duration.Milliseconds(),
			point.DeltaClass,
			point.DeltaErrors,
		))
	}

	return []byte(buf.String()), nil
}

func RenderTrendJSON(points []history.TrendPoint) ([]byte, error) {
	if points == nil {
		points = []history.TrendPoint{}
	}
	return json.MarshalIndent(points, "", "  ")
}
