package formats

import (
	"encoding/json"

	"semant/internal/core/diag"
	"semant/internal/shared/version"
)

type JSONReport struct {
	Version  string        `json:"version"`
	Passed   bool          `json:"passed"`
	Files    int           `json:"files"`
	Classes  int           `json:"classes"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Reports  []JSONFinding `json:"reports"`
}

type JSONFinding struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

// GenerateJSON renders reports as an indented JSON document.
func GenerateJSON(projectRoot string, files, classes int, reports []diag.Report) ([]byte, error) {
	errors, warnings := CountSeverities(reports)
	doc := JSONReport{
		Version:  version.Version,
		Passed:   errors == 0,
		Files:    files,
		Classes:  classes,
		Errors:   errors,
		Warnings: warnings,
		Reports:  make([]JSONFinding, 0, len(reports)),
	}
	for _, r := range reports {
		doc.Reports = append(doc.Reports, JSONFinding{
			Severity: r.Severity.String(),
			Category: string(r.Category),
			File:     relPath(projectRoot, r.File),
			Line:     r.Line,
			Message:  r.Message,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
