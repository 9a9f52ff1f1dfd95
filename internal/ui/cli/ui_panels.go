package cli

import (
	"fmt"
	"strings"

	"semant/internal/data/history"
	"semant/internal/ui/report/formats"
)

func renderHelp(m model) string {
	keys := "Keys: tab panel | / filter | o open source | esc clear focus | t trend overlay | q quit"
	if m.mode == panelCategories {
		keys = "Keys: tab panel | enter focus category | esc clear focus | t trend overlay | q quit"
	}
	return statusStyle.Render(keys)
}

func renderCategoryPanel(m model) string {
	return m.categoryList.View() + "\n\n" + renderCategorySummary(m)
}

func renderCategorySummary(m model) string {
	if len(m.categories) == 0 {
		return statusStyle.Render("No reports in any category.")
	}
	idx := m.categoryList.Index()
	if idx < 0 || idx >= len(m.categories) {
		idx = 0
	}
	cat := m.categories[idx]
	lines := []string{fmt.Sprintf("Selected: %s", formats.CategoryTitle(cat))}
	shown := 0
	for _, r := range m.reports {
		if r.Category != cat {
			continue
		}
		if shown == 5 {
			lines = append(lines, "  ...")
			break
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", reportLocation(r), r.Message))
		shown++
	}
	lines = append(lines, "  Press enter to list only this category.")
	return strings.Join(lines, "\n")
}

func renderTrendOverlay(points []history.TrendPoint) string {
	if len(points) == 0 {
		return statusStyle.Render("Trend overlay unavailable (enable history to record runs).")
	}
	last := points[len(points)-1]
	passed := 0
	for _, p := range points {
		if p.Run.Passed {
			passed++
		}
	}
	return strings.Join([]string{
		"Trend Overlay",
		fmt.Sprintf("  Runs: %d | Passed: %d", len(points), passed),
		fmt.Sprintf("  Last run: %s (%d errors, %d warnings)", last.Run.Timestamp.Local().Format("15:04:05"), last.Run.ErrorCount, last.Run.WarningCount),
		fmt.Sprintf("  Errors delta: %+d | Classes delta: %+d", last.DeltaErrors, last.DeltaClass),
	}, "\n")
}
