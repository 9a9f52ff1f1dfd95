package cli

import (
	"context"
	"log/slog"

	coreapp "semant/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

const uiTrendRuns = 20

func runUI(ctx context.Context, app *coreapp.App, baseDir string) error {
	trend, _ := app.HistoryTrend(ctx, uiTrendRuns)
	m := initialModel(baseDir, trend)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	sendUpdate := func(update coreapp.Update) {
		p.Send(updateMsg{
			reports:  update.Reports,
			files:    len(update.Files),
			classes:  update.Classes,
			errors:   update.Errors,
			warnings: update.Warnings,
		})
		// History is written in the background, so the trend trails by a run.
		if points, err := app.HistoryTrend(ctx, uiTrendRuns); err == nil {
			p.Send(trendMsg{points: points})
		}
	}

	app.SetUpdateHandler(sendUpdate)
	app.SetErrorHandler(func(err error) { p.Send(runErrorMsg{err: err}) })
	defer func() {
		app.SetUpdateHandler(nil)
		app.SetErrorHandler(nil)
	}()

	go func() {
		if update, ok := app.CurrentUpdate(); ok {
			sendUpdate(update)
		}
	}()

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		slog.Debug("ui stopped by signal")
		return nil
	}
	return err
}
