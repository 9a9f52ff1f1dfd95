package cli

import (
	"fmt"
	"time"

	"semant/internal/core/diag"
	"semant/internal/data/history"
	"semant/internal/ui/report/formats"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	// ref indexes model.visible for report items.
	ref int
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	reportList   list.Model
	categoryList list.Model
	mode         panelMode
	baseDir      string
	trend        []history.TrendPoint
	showTrend    bool

	reports []diag.Report
	// visible backs reportList: every report, or only those of focus.
	visible    []diag.Report
	focus      diag.Category
	categories []diag.Category

	lastUpdate   time.Time
	fileCount    int
	classCount   int
	errorCount   int
	warningCount int
	runErr       string

	sourceJumpStatus string
}

type panelMode int

const (
	panelReports panelMode = iota
	panelCategories
)

type updateMsg struct {
	reports  []diag.Report
	files    int
	classes  int
	errors   int
	warnings int
}

type runErrorMsg struct {
	err error
}

type trendMsg struct {
	points []history.TrendPoint
}

type sourceJumpResultMsg struct {
	target string
	err    error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 8
		if height < 5 {
			height = 5
		}
		m.reportList.SetSize(width, height)
		m.categoryList.SetSize(width, height)
	case updateMsg:
		m.reports = msg.reports
		m.fileCount = msg.files
		m.classCount = msg.classes
		m.errorCount = msg.errors
		m.warningCount = msg.warnings
		m.lastUpdate = time.Now()
		m.runErr = ""
		m = m.refreshCategories()
		m = m.refreshReports()
	case runErrorMsg:
		m.runErr = msg.err.Error()
		m.lastUpdate = time.Now()
	case trendMsg:
		m.trend = msg.points
	case sourceJumpResultMsg:
		if msg.err != nil {
			m.sourceJumpStatus = statusStyle.Render(fmt.Sprintf("Source jump failed: %v", msg.err))
		} else {
			m.sourceJumpStatus = statusStyle.Render(fmt.Sprintf("Opened source: %s", msg.target))
		}
	}

	var cmd tea.Cmd
	if m.mode == panelReports {
		m.reportList, cmd = m.reportList.Update(msg)
	} else {
		m.categoryList, cmd = m.categoryList.Update(msg)
	}
	return m, cmd
}

// refreshReports rebuilds the report list for the current focus.
func (m model) refreshReports() model {
	m.visible = make([]diag.Report, 0, len(m.reports))
	items := make([]list.Item, 0, len(m.reports))
	for _, r := range m.reports {
		if m.focus != "" && r.Category != m.focus {
			continue
		}
		items = append(items, item{
			title: fmt.Sprintf("%s [%s]", r.Message, r.Category),
			desc:  fmt.Sprintf("%s at %s", r.Severity, reportLocation(r)),
			ref:   len(m.visible),
		})
		m.visible = append(m.visible, r)
	}
	m.reportList.SetItems(items)
	m.reportList.Title = "Semantic Reports"
	if m.focus != "" {
		m.reportList.Title = "Semantic Reports: " + formats.CategoryTitle(m.focus)
	}
	return m
}

func (m model) refreshCategories() model {
	grouped := formats.GroupByCategory(m.reports)
	m.categories = make([]diag.Category, 0, len(diag.Categories))
	items := make([]list.Item, 0, len(diag.Categories))
	for _, cat := range diag.Categories {
		n := len(grouped[cat])
		if n == 0 {
			continue
		}
		m.categories = append(m.categories, cat)
		items = append(items, item{
			title: formats.CategoryTitle(cat),
			desc:  fmt.Sprintf("%d reports", n),
		})
	}
	m.categoryList.SetItems(items)
	if m.focus != "" && len(grouped[m.focus]) == 0 {
		m.focus = ""
	}
	return m
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d classes",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.classCount))

	var summary string
	switch {
	case m.runErr != "":
		summary = errorStyle.Render("Run failed: " + m.runErr)
	case m.errorCount == 0 && m.warningCount == 0:
		summary = successStyle.Render("Analysis passed")
	default:
		summary = fmt.Sprintf("%s | %s",
			errorStyle.Render(fmt.Sprintf("%d errors", m.errorCount)),
			warningStyle.Render(fmt.Sprintf("%d warnings", m.warningCount)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Bantam Semantic Monitor"), status, summary)
	help := renderHelp(m)

	body := m.reportList.View()
	if m.mode == panelCategories {
		body = renderCategoryPanel(m)
	}
	if m.showTrend {
		body += "\n\n" + renderTrendOverlay(m.trend)
	}
	if m.sourceJumpStatus != "" {
		body += "\n\n" + m.sourceJumpStatus
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func initialModel(baseDir string, trend []history.TrendPoint) model {
	reportList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	reportList.Title = "Semantic Reports"
	reportList.SetShowStatusBar(false)
	reportList.SetFilteringEnabled(true)

	categoryList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	categoryList.Title = "Categories"
	categoryList.SetShowStatusBar(false)
	categoryList.SetFilteringEnabled(false)

	return model{
		reportList:   reportList,
		categoryList: categoryList,
		mode:         panelReports,
		baseDir:      baseDir,
		trend:        trend,
		lastUpdate:   time.Now(),
	}
}

func reportLocation(r diag.Report) string {
	switch {
	case r.File != "" && r.Line > 0:
		return fmt.Sprintf("%s:%d", r.File, r.Line)
	case r.File != "":
		return r.File
	case r.Line > 0:
		return fmt.Sprintf("line %d", r.Line)
	default:
		return "program"
	}
}
