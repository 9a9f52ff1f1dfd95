// Package cli is the semant command line: it loads configuration, runs the
// analysis once or in watch mode and hosts the terminal UI.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	coreapp "semant/internal/core/app"
	"semant/internal/core/config"
	"semant/internal/core/errors"
	"semant/internal/shared/observability"
	"semant/internal/shared/version"
	"semant/internal/ui/report"
)

// Run executes the command and returns its exit code: 0 on success, 1 when
// the analysis reported errors or could not run, 2 on bad flags.
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "semant %s\n", version.Version)
		return 0
	}

	cleanupLogs := configureLogging(stderr, opts.ui, opts.verbose)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if err := applyModeOptions(&opts, cfg, cwd); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	base := cwd
	if cfgPath != "" {
		base = filepath.Dir(cfgPath)
	}
	if errs := config.ValidateRoots(cfg, base); len(errs) > 0 && opts.history == 0 {
		for _, e := range errs {
			slog.Error("invalid input root", "error", e)
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := startTracing(ctx, cfg)
	defer shutdownTracing()

	a, err := coreapp.New(cfg, base)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			slog.Warn("shutdown incomplete", "error", err)
		}
	}()

	if opts.history > 0 {
		return runHistoryMode(ctx, a, opts, stdout, stderr)
	}

	if cfg.Observability.Metrics.Enabled {
		srv := observability.NewServer(cfg.Observability.Metrics.Address, coreapp.NewHealthService(a).Check)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	if opts.ui {
		a.SetOutput(io.Discard)
	} else {
		a.SetOutput(stdout)
	}

	upd, runErr := a.Run(ctx)
	if runErr != nil {
		slog.Error("analysis failed", "error", runErr)
	}
	if !opts.watch {
		if runErr != nil || !upd.Passed() {
			return 1
		}
		return 0
	}

	if err := a.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	if cfgPath != "" {
		cw, err := a.WatchConfig(ctx, cfgPath)
		if err != nil {
			slog.Warn("config hot reload unavailable", "error", err)
		} else {
			defer cw.Stop()
		}
	}

	if opts.ui {
		if err := runUI(ctx, a, base); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	slog.Info("watching for changes", "roots", cfg.Input.Roots)
	<-ctx.Done()
	return 0
}

// loadConfig returns the config at path. The default path may be absent,
// in which case built-in defaults are used and the returned path is empty.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	isDefault := path == defaultConfigPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case errors.IsCode(err, errors.CodeNotFound) && isDefault:
		slog.Debug("no config file found; using defaults", "path", path)
		cfg = config.DefaultConfig()
		path = ""
	default:
		return nil, "", err
	}

	config.ApplyEnvOverrides(cfg)
	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, "", errors.Wrap(errs[0], errors.CodeValidationError, "invalid config after environment overrides")
	}
	return cfg, path, nil
}

// applyModeOptions folds flags and positional input paths into cfg.
func applyModeOptions(opts *cliOptions, cfg *config.Config, cwd string) error {
	if opts.ui {
		opts.watch = true
	}
	if opts.once && opts.watch {
		return fmt.Errorf("-once cannot be combined with -watch or -ui")
	}
	if opts.history < 0 {
		return fmt.Errorf("-history must be positive")
	}
	if opts.history > 0 && (opts.watch || len(opts.args) > 0) {
		return fmt.Errorf("-history cannot be combined with -watch, -ui or input paths")
	}
	if opts.historyTSV && opts.history == 0 {
		return fmt.Errorf("-history-tsv requires -history")
	}

	if len(opts.args) > 0 {
		roots := make([]string, 0, len(opts.args))
		for _, arg := range opts.args {
			roots = append(roots, config.ResolveRelative(cwd, arg))
		}
		cfg.Input.Roots = roots
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.output != "" {
		cfg.Output.Path = config.ResolveRelative(cwd, opts.output)
		cfg.Output.Marker = ""
	}
	if opts.history > 0 {
		cfg.History.Enabled = true
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func runHistoryMode(ctx context.Context, a *coreapp.App, opts cliOptions, stdout, stderr io.Writer) int {
	points, err := a.HistoryTrend(ctx, opts.history)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	render := report.RenderTrendJSON
	if opts.historyTSV {
		render = report.RenderTrendTSV
	}
	data, err := render(points)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if _, err := stdout.Write(data); err != nil {
		return 1
	}
	if !opts.historyTSV {
		fmt.Fprintln(stdout)
	}
	return 0
}

func startTracing(ctx context.Context, cfg *config.Config) func() {
	if !cfg.Observability.Tracing.Enabled {
		return func() {}
	}
	shutdown, err := observability.InitTracing(ctx, observability.TracingOptions{
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		Insecure:    cfg.Observability.Tracing.Insecure,
		ServiceName: cfg.Observability.Tracing.ServiceName,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		return func() {}
	}
	return func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}
}

func configureLogging(stderr io.Writer, uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := stderr
	var closeFn func() = func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "semant", "semant.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "semant", "semant.log")
	}

	return "semant.log"
}
