package app

import (
	"context"
	"log/slog"

	"semant/internal/core/config"
	"semant/internal/core/watcher"
	"semant/internal/shared/observability"
)

// StartWatcher re-runs the analysis whenever an input document changes,
// at most as often as the watch rate allows.
func (a *App) StartWatcher(ctx context.Context) error {
	cfg, paths, _ := a.snapshot()
	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:     cfg.Watch.Debounce,
		Include:      cfg.Input.Include,
		ExcludeDirs:  cfg.Input.Exclude.Dirs,
		ExcludeFiles: cfg.Input.Exclude.Files,
	}, a.HandleChanges)
	if err != nil {
		return err
	}

	a.cfgMu.Lock()
	a.activeWatcher = w
	a.watchCtx = ctx
	a.cfgMu.Unlock()
	return w.Watch(paths.Roots)
}

func (a *App) HandleChanges(paths []string) {
	a.cfgMu.RLock()
	ctx := a.watchCtx
	a.cfgMu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}

	slog.Info("detected changes", "count", len(paths))
	if delay := a.limiter.Delay(); delay > 0 {
		observability.WatchRunsThrottledTotal.Inc()
		slog.Debug("analysis run throttled", "delay", delay)
	}
	if err := a.limiter.Wait(ctx, 1); err != nil {
		return
	}
	if _, err := a.Run(ctx); err != nil {
		slog.Error("analysis run failed", "error", err)
	}
}

// WatchConfig applies edits to the config file at path while the App runs.
// Environment overrides are re-applied on every reload.
func (a *App) WatchConfig(ctx context.Context, path string) (*config.Watcher, error) {
	cw := config.NewWatcher(path, func(cfg *config.Config) {
		config.ApplyEnvOverrides(cfg)
		if err := a.ApplyConfig(cfg); err != nil {
			slog.Warn("reloaded config rejected; keeping previous config", "error", err)
		}
	})
	if err := cw.Start(ctx); err != nil {
		return nil, err
	}
	return cw, nil
}
