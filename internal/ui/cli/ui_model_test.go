package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"semant/internal/core/diag"
	"semant/internal/data/history"

	tea "github.com/charmbracelet/bubbletea"
)

func sampleUpdate() updateMsg {
	return updateMsg{
		reports: []diag.Report{
			{Severity: diag.SeverityError, Category: diag.CategoryType, File: "Main.btm", Line: 4, Message: "Incompatible types"},
			{Severity: diag.SeverityError, Category: diag.CategorySignature, File: "Foo.btm", Line: 9, Message: "Missing return"},
		},
		files:   2,
		classes: 3,
		errors:  2,
	}
}

func asModel(t *testing.T, m tea.Model) model {
	t.Helper()
	state, ok := m.(model)
	if !ok {
		t.Fatalf("expected model, got %T", m)
	}
	return state
}

func TestModel_UpdatePopulatesLists(t *testing.T) {
	m := initialModel("", nil)
	state := asModel(t, mustUpdate(m, sampleUpdate()))

	if got := len(state.reportList.Items()); got != 2 {
		t.Fatalf("expected 2 report items, got %d", got)
	}
	if got := len(state.categoryList.Items()); got != 2 {
		t.Fatalf("expected 2 category items, got %d", got)
	}
	if state.categories[0] != diag.CategoryType || state.categories[1] != diag.CategorySignature {
		t.Fatalf("categories out of order: %v", state.categories)
	}
	if state.classCount != 3 || state.errorCount != 2 {
		t.Fatalf("unexpected counters: %+v", state)
	}
	if view := state.View(); !strings.Contains(view, "2 errors") {
		t.Fatalf("expected error summary in view:\n%s", view)
	}
}

func TestModel_FocusAndClearCategory(t *testing.T) {
	state := asModel(t, mustUpdate(initialModel("", nil), sampleUpdate()))

	state = asModel(t, mustUpdate(state, tea.KeyMsg{Type: tea.KeyTab}))
	if state.mode != panelCategories {
		t.Fatal("tab should switch to the category panel")
	}

	state = asModel(t, mustUpdate(state, tea.KeyMsg{Type: tea.KeyEnter}))
	if state.mode != panelReports || state.focus != diag.CategoryType {
		t.Fatalf("enter should focus the selected category, got mode=%d focus=%q", state.mode, state.focus)
	}
	if len(state.visible) != 1 || state.visible[0].Message != "Incompatible types" {
		t.Fatalf("unexpected visible reports: %+v", state.visible)
	}
	if !strings.Contains(state.reportList.Title, "Type Errors") {
		t.Fatalf("unexpected title %q", state.reportList.Title)
	}

	state = asModel(t, mustUpdate(state, tea.KeyMsg{Type: tea.KeyEsc}))
	if state.focus != "" || len(state.visible) != 2 {
		t.Fatalf("esc should clear focus, got focus=%q visible=%d", state.focus, len(state.visible))
	}
}

func TestModel_FocusDroppedWhenCategoryEmpties(t *testing.T) {
	state := asModel(t, mustUpdate(initialModel("", nil), sampleUpdate()))
	state.focus = diag.CategoryType

	state = asModel(t, mustUpdate(state, updateMsg{files: 1, classes: 1}))
	if state.focus != "" {
		t.Fatalf("expected focus to reset, got %q", state.focus)
	}
	if view := state.View(); !strings.Contains(view, "Analysis passed") {
		t.Fatalf("expected passing summary in view:\n%s", view)
	}
}

func TestModel_TrendToggleAndRunError(t *testing.T) {
	trend := history.BuildTrend([]history.Run{{ClassCount: 2, ErrorCount: 1}, {ClassCount: 3, Passed: true}})
	state := asModel(t, mustUpdate(initialModel("", trend), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}}))
	if !state.showTrend {
		t.Fatal("t should toggle the trend overlay")
	}

	state = asModel(t, mustUpdate(state, runErrorMsg{err: errors.New("boom")}))
	if view := state.View(); !strings.Contains(view, "Run failed: boom") {
		t.Fatalf("expected run error in view:\n%s", view)
	}

	state = asModel(t, mustUpdate(state, sampleUpdate()))
	if state.runErr != "" {
		t.Fatal("a successful update should clear the run error")
	}
}

func TestSelectedSourceTarget(t *testing.T) {
	base := t.TempDir()
	state := asModel(t, mustUpdate(initialModel(base, nil), sampleUpdate()))

	target, ok := selectedSourceTarget(state)
	if !ok {
		t.Fatal("expected a source target")
	}
	if target.file != filepath.Join(base, "Main.btm") || target.line != 4 {
		t.Fatalf("unexpected target %+v", target)
	}

	empty := initialModel(base, nil)
	if _, ok := selectedSourceTarget(empty); ok {
		t.Fatal("expected no target without reports")
	}
}

func mustUpdate(m tea.Model, msg tea.Msg) tea.Model {
	next, _ := m.Update(msg)
	return next
}
