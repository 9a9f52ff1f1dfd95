package formats

import (
	"fmt"
	"strings"

	"semant/internal/core/diag"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

type TextOptions struct {
	ProjectRoot string
	Color       bool
}

// GenerateText renders one line per report followed by a per-category
// summary.
func GenerateText(reports []diag.Report, opts TextOptions) string {
	paint := func(style lipgloss.Style, s string) string {
		if !opts.Color {
			return s
		}
		return style.Render(s)
	}

	var b strings.Builder
	for _, r := range reports {
		sev := r.Severity.String()
		if r.Severity >= diag.SeverityError {
			sev = paint(errorStyle, sev)
		} else {
			sev = paint(warningStyle, sev)
		}
		loc := location(opts.ProjectRoot, r)
		if loc != "-" {
			b.WriteString(paint(dimStyle, loc) + ": ")
		}
		fmt.Fprintf(&b, "%s: %s\n", sev, r.Message)
	}

	errors, warnings := CountSeverities(reports)
	if errors == 0 && warnings == 0 {
		b.WriteString(paint(successStyle, "semantic analysis passed") + "\n")
		return b.String()
	}

	grouped := GroupByCategory(reports)
	parts := make([]string, 0, len(diag.Categories))
	for _, cat := range diag.Categories {
		if n := len(grouped[cat]); n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", cat, n))
		}
	}
	summary := fmt.Sprintf("%d %s, %d %s (%s)",
		errors, plural(errors, "error"), warnings, plural(warnings, "warning"), strings.Join(parts, ", "))
	if errors > 0 {
		summary = paint(errorStyle, summary)
	} else {
		summary = paint(warningStyle, summary)
	}
	b.WriteString(summary + "\n")
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
