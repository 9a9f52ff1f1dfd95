// Package app drives analysis runs: it finds the AST documents, analyses
// them, renders the report and records the run in history.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"semant/internal/core/config"
	"semant/internal/core/diag"
	"semant/internal/core/errors"
	"semant/internal/core/watcher"
	"semant/internal/data/history"
	"semant/internal/data/queue"
	"semant/internal/engine/ast"
	"semant/internal/engine/semant"
	"semant/internal/shared/observability"
	"semant/internal/shared/util"
	"semant/internal/ui/report"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Update describes one finished analysis run.
type Update struct {
	Timestamp time.Time
	Files     []string
	Classes   int
	Reports   []diag.Report
	Errors    int
	Warnings  int
	Duration  time.Duration
	// Err is the error gate of the run: non-nil when any error was reported.
	Err error
}

func (u Update) Passed() bool {
	return u.Err == nil
}

type App struct {
	cfgMu  sync.RWMutex
	Config *config.Config
	paths  config.ResolvedPaths

	stdout io.Writer

	historyStore *history.Store
	history      *history.Adapter
	historyQueue *queue.MemoryQueue[historyJob]
	workerCancel context.CancelFunc
	workerDone   chan struct{}

	limiter       *util.Limiter
	activeWatcher *watcher.Watcher
	watchCtx      context.Context

	runMu sync.Mutex

	updateMu sync.RWMutex
	onUpdate func(Update)
	onError  func(error)
	last     *Update
	lastErr  error
}

// New prepares an App for cfg. Relative paths in cfg resolve against base.
func New(cfg *config.Config, base string) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	paths, err := config.ResolvePaths(cfg, base)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "resolve config paths")
	}

	a := &App{
		Config:  cfg,
		paths:   paths,
		stdout:  os.Stdout,
		limiter: util.NewLimiter(cfg.Watch.Rate, cfg.Watch.Burst),
	}
	if cfg.History.Enabled {
		if err := a.initHistory(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// SetOutput redirects reports that would go to stdout.
func (a *App) SetOutput(w io.Writer) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.stdout = w
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

// SetErrorHandler registers a callback for runs that fail to complete.
func (a *App) SetErrorHandler(handler func(error)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onError = handler
}

// CurrentUpdate returns the last finished run, if any.
func (a *App) CurrentUpdate() (Update, bool) {
	a.updateMu.RLock()
	defer a.updateMu.RUnlock()
	if a.last == nil {
		return Update{}, false
	}
	return *a.last, true
}

func (a *App) snapshot() (*config.Config, config.ResolvedPaths, io.Writer) {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.Config, a.paths, a.stdout
}

// Run performs one full analysis. The returned error covers failures to
// read or render; semantic problems are carried in Update.Err.
func (a *App) Run(ctx context.Context) (Update, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "app.Run")
	defer span.End()

	upd, err := a.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run failed")
		a.setLastErr(err)
		return Update{}, err
	}
	span.SetAttributes(
		attribute.Int("files", len(upd.Files)),
		attribute.Int("errors", upd.Errors),
	)
	a.emitUpdate(upd)
	return upd, nil
}

func (a *App) run(ctx context.Context) (Update, error) {
	cfg, paths, stdout := a.snapshot()
	started := time.Now()

	files, err := ScanInputs(paths.Roots, cfg.Input.Include, cfg.Input.Exclude.Dirs, cfg.Input.Exclude.Files)
	if err != nil {
		return Update{}, err
	}
	if len(files) == 0 {
		return Update{}, errors.New(errors.CodeNotFound, "no AST documents found under input roots")
	}

	prog, err := ast.LoadFiles(files...)
	if err != nil {
		return Update{}, err
	}
	res, err := semant.Analyze(ctx, prog)
	if err != nil {
		return Update{}, err
	}

	upd := Update{
		Timestamp: started.UTC(),
		Files:     files,
		Classes:   len(res.Classes),
		Reports:   res.Sink.Sorted(),
		Errors:    res.Sink.Count(diag.SeverityError),
		Warnings:  res.Sink.Count(diag.SeverityWarning),
		Duration:  time.Since(started),
		Err:       res.Err(),
	}

	out, err := report.Render(
		report.Summary{Files: len(files), Classes: upd.Classes, Reports: upd.Reports},
		report.Options{
			Format:      cfg.Output.Format,
			ProjectName: filepath.Base(paths.Base),
			ProjectRoot: paths.Base,
			Color:       cfg.Output.ColorEnabled() && paths.OutputPath == "",
			GeneratedAt: upd.Timestamp,
		},
	)
	if err != nil {
		return Update{}, err
	}
	if err := report.Write(stdout, paths.OutputPath, cfg.Output.Marker, out); err != nil {
		return Update{}, err
	}

	a.enqueueHistory(historyJob{
		inputs:  relativeInputs(paths.Base, files),
		classes: upd.Classes,
		reports: upd.Reports,
		elapsed: upd.Duration,
	})

	slog.Info("analysis complete",
		"files", len(files),
		"classes", upd.Classes,
		"errors", upd.Errors,
		"warnings", upd.Warnings,
		"duration", upd.Duration,
	)
	return upd, nil
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.Lock()
	a.last = &update
	a.lastErr = nil
	handler := a.onUpdate
	a.updateMu.Unlock()
	if handler != nil {
		handler(update)
	}
}

func (a *App) setLastErr(err error) {
	a.updateMu.Lock()
	a.lastErr = err
	handler := a.onError
	a.updateMu.Unlock()
	if handler != nil {
		handler(err)
	}
}

// ApplyConfig swaps in a reloaded config. Input roots and the history
// database are fixed for the life of the App; changes to them are logged
// and ignored.
func (a *App) ApplyConfig(cfg *config.Config) error {
	if errs := config.Validate(cfg); len(errs) > 0 {
		return errors.Wrap(errs[0], errors.CodeValidationError, "invalid config")
	}

	a.cfgMu.Lock()
	paths, err := config.ResolvePaths(cfg, a.paths.Base)
	if err != nil {
		a.cfgMu.Unlock()
		return errors.Wrap(err, errors.CodeValidationError, "resolve config paths")
	}
	if !slices.Equal(paths.Roots, a.paths.Roots) {
		slog.Warn("input.roots changed; restart to watch the new roots")
	}
	if cfg.History.Enabled != a.Config.History.Enabled || paths.HistoryPath != a.paths.HistoryPath {
		slog.Warn("history settings changed; restart to apply them")
	}
	paths.Roots = a.paths.Roots
	paths.HistoryPath = a.paths.HistoryPath
	a.Config = cfg
	a.paths = paths
	w := a.activeWatcher
	a.cfgMu.Unlock()

	a.limiter.Update(cfg.Watch.Rate, cfg.Watch.Burst)
	if w != nil {
		w.SetDebounce(cfg.Watch.Debounce)
	}
	slog.Info("config applied", "format", cfg.Output.Format, "rate", cfg.Watch.Rate, "burst", cfg.Watch.Burst)
	return nil
}

// HistoryTrend returns the last n recorded runs, oldest first.
func (a *App) HistoryTrend(ctx context.Context, n int) ([]history.TrendPoint, error) {
	if a.history == nil {
		return nil, errors.New(errors.CodeNotSupported, "history is disabled")
	}
	return a.history.Trend(ctx, n)
}

// Close stops the watcher and flushes pending history writes.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	a.cfgMu.Lock()
	w := a.activeWatcher
	a.activeWatcher = nil
	a.cfgMu.Unlock()

	var firstErr error
	if w != nil {
		if err := w.Close(); err != nil {
			firstErr = err
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
	}
	if err := a.stopHistoryWorker(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.historyStore != nil {
		if err := a.historyStore.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close history: %w", err)
		}
		a.historyStore = nil
	}
	return firstErr
}

func relativeInputs(base string, files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if rel, err := filepath.Rel(base, f); err == nil && !filepath.IsAbs(rel) {
			out = append(out, filepath.ToSlash(rel))
			continue
		}
		out = append(out, filepath.ToSlash(f))
	}
	return out
}
