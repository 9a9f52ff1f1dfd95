package formats

import (
	"semant/internal/core/diag"
)

var categoryTitles = map[diag.Category]string{
	diag.CategoryNaming:      "Naming Errors",
	diag.CategoryHierarchy:   "Hierarchy Errors",
	diag.CategoryType:        "Type Errors",
	diag.CategoryControlFlow: "Control Flow Errors",
	diag.CategorySignature:   "Signature Errors",
}

// CategoryTitle returns the section heading for a category.
func CategoryTitle(cat diag.Category) string {
	if title, ok := categoryTitles[cat]; ok {
		return title
	}
	return string(cat)
}

// GroupByCategory buckets reports by category, keeping their order.
func GroupByCategory(reports []diag.Report) map[diag.Category][]diag.Report {
	out := make(map[diag.Category][]diag.Report, len(diag.Categories))
	for _, r := range reports {
		out[r.Category] = append(out[r.Category], r)
	}
	return out
}

func CountSeverities(reports []diag.Report) (errors, warnings int) {
	for _, r := range reports {
		switch {
		case r.Severity >= diag.SeverityError:
			errors++
		case r.Severity == diag.SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
