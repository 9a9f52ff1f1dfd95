package formats

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"semant/internal/core/diag"
)

type MarkdownReportData struct {
	TotalFiles   int
	TotalClasses int
	Reports      []diag.Report
}

type MarkdownReportOptions struct {
	ProjectName         string
	ProjectRoot         string
	Version             string
	GeneratedAt         time.Time
	TableOfContents     bool
	CollapsibleSections bool
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data MarkdownReportData, opts MarkdownReportOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}
	grouped := GroupByCategory(data.Reports)

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Semantic Analysis Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Semantic Analysis Report\n\n")
	if opts.TableOfContents {
		b.WriteString("## Table of Contents\n")
		b.WriteString("- [Executive Summary](#executive-summary)\n")
		for _, cat := range diag.Categories {
			if len(grouped[cat]) == 0 {
				continue
			}
			title := CategoryTitle(cat)
			b.WriteString(fmt.Sprintf("- [%s](#%s)\n", title, anchor(title)))
		}
		b.WriteString("\n")
	}

	errors, warnings := CountSeverities(data.Reports)
	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Input Files | %d |\n", data.TotalFiles))
	b.WriteString(fmt.Sprintf("| Classes | %d |\n", data.TotalClasses))
	b.WriteString(fmt.Sprintf("| Errors | %d |\n", errors))
	b.WriteString(fmt.Sprintf("| Warnings | %d |\n", warnings))
	for _, cat := range diag.Categories {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", CategoryTitle(cat), len(grouped[cat])))
	}
	b.WriteString("\n")

	if len(data.Reports) == 0 {
		b.WriteString("No semantic errors detected.\n")
		return b.String(), nil
	}

	for _, cat := range diag.Categories {
		rows := grouped[cat]
		if len(rows) == 0 {
			continue
		}
		m.writeCategory(&b, cat, rows, opts.ProjectRoot, opts.CollapsibleSections)
	}
	return b.String(), nil
}

func (m *MarkdownGenerator) writeCategory(b *strings.Builder, cat diag.Category, reports []diag.Report, projectRoot string, collapsible bool) {
	b.WriteString("## " + CategoryTitle(cat) + "\n")
	rendered := make([]string, 0, len(reports))
	for _, r := range reports {
		rendered = append(rendered, fmt.Sprintf(
			"| %s | `%s` | %s |\n",
			r.Severity,
			location(projectRoot, r),
			escapeCell(r.Message),
		))
	}
	m.writeTableWithCollapse(
		b,
		CategoryTitle(cat)+" details",
		collapsible,
		len(rendered) > 10,
		[]string{"| Severity | Location | Message |\n", "| --- | --- | --- |\n"},
		rendered,
	)
}

func (m *MarkdownGenerator) writeTableWithCollapse(
	b *strings.Builder,
	summary string,
	collapsible bool,
	collapse bool,
	header []string,
	rows []string,
) {
	if collapsible && collapse {
		b.WriteString("<details>\n")
		b.WriteString("<summary>")
		b.WriteString(summary)
		b.WriteString("</summary>\n\n")
	}
	for _, line := range header {
		b.WriteString(line)
	}
	for _, line := range rows {
		b.WriteString(line)
	}
	b.WriteString("\n")
	if collapsible && collapse {
		b.WriteString("</details>\n\n")
	}
}

func location(root string, r diag.Report) string {
	if r.File == "" {
		if r.Line > 0 {
			return fmt.Sprintf("line %d", r.Line)
		}
		return "-"
	}
	path := relPath(root, r.File)
	if r.Line > 0 {
		return fmt.Sprintf("%s:%d", path, r.Line)
	}
	return path
}

func relPath(root, path string) string {
	root = strings.TrimSpace(root)
	path = strings.TrimSpace(path)
	if root == "" || path == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func anchor(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
