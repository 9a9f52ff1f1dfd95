package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	if m.mode == panelReports && m.reportList.SettingFilter() {
		var cmd tea.Cmd
		m.reportList, cmd = m.reportList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelReports {
			m.mode = panelCategories
		} else {
			m.mode = panelReports
		}
		return m, nil
	case "t":
		m.showTrend = !m.showTrend
		return m, nil
	case "esc":
		if m.focus != "" {
			m.focus = ""
			m = m.refreshReports()
			return m, nil
		}
	}

	if m.mode == panelCategories {
		if msg.String() == "enter" {
			return focusSelectedCategory(m), nil
		}
		var cmd tea.Cmd
		m.categoryList, cmd = m.categoryList.Update(msg)
		return m, cmd
	}

	if msg.String() == "o" {
		target, ok := selectedSourceTarget(m)
		if !ok {
			m.sourceJumpStatus = statusStyle.Render("No source target available.")
			return m, nil
		}
		return m, jumpToSourceCmd(target)
	}

	var cmd tea.Cmd
	m.reportList, cmd = m.reportList.Update(msg)
	return m, cmd
}

func focusSelectedCategory(m model) model {
	if len(m.categories) == 0 {
		return m
	}
	idx := m.categoryList.Index()
	if idx < 0 || idx >= len(m.categories) {
		idx = 0
	}
	m.focus = m.categories[idx]
	m.mode = panelReports
	return m.refreshReports()
}

type sourceTarget struct {
	file string
	line int
}

func selectedSourceTarget(m model) (sourceTarget, bool) {
	sel, ok := m.reportList.SelectedItem().(item)
	if !ok || sel.ref < 0 || sel.ref >= len(m.visible) {
		return sourceTarget{}, false
	}
	r := m.visible[sel.ref]
	if r.File == "" {
		return sourceTarget{}, false
	}
	path := r.File
	if !filepath.IsAbs(path) && m.baseDir != "" {
		path = filepath.Join(m.baseDir, path)
	}
	line := r.Line
	if line <= 0 {
		line = 1
	}
	return sourceTarget{file: path, line: line}, true
}

func jumpToSourceCmd(target sourceTarget) tea.Cmd {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	args := []string{target.file}
	if strings.Contains(editor, "vim") || strings.Contains(editor, "nvim") || strings.HasSuffix(editor, "/vi") || editor == "vi" {
		args = []string{fmt.Sprintf("+%d", target.line), target.file}
	}
	cmd := exec.Command(editor, args...)
	label := fmt.Sprintf("%s:%d", target.file, target.line)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return sourceJumpResultMsg{target: label, err: err}
	})
}
