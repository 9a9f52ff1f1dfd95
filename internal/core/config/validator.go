package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"semant/internal/core/config/helpers"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateInput(cfg *Config) error {
	if len(cfg.Input.Roots) == 0 {
		return fmt.Errorf("input.roots must not be empty")
	}
	for i, root := range cfg.Input.Roots {
		if helpers.HasWildcard(root) {
			return fmt.Errorf("input.roots[%d] %q must be a path, not a pattern; use input.include", i, root)
		}
	}
	if len(cfg.Input.Include) == 0 {
		return fmt.Errorf("input.include must not be empty")
	}
	for _, group := range []struct {
		name     string
		patterns []string
	}{
		{"input.include", cfg.Input.Include},
		{"input.exclude.dirs", cfg.Input.Exclude.Dirs},
		{"input.exclude.files", cfg.Input.Exclude.Files},
	} {
		for i, pattern := range group.patterns {
			if _, err := glob.Compile(pattern); err != nil {
				return fmt.Errorf("%s[%d] %q is not a valid glob: %w", group.name, i, pattern, err)
			}
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 10*time.Millisecond || cfg.Watch.Debounce > time.Minute {
		return fmt.Errorf("watch.debounce must be between 10ms and 1m")
	}
	if cfg.Watch.Rate <= 0 {
		return fmt.Errorf("watch.rate must be positive")
	}
	if cfg.Watch.Burst < 1 {
		return fmt.Errorf("watch.burst must be >= 1")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case FormatText, FormatJSON, FormatMarkdown, FormatSARIF:
	default:
		return fmt.Errorf("output.format must be one of: text, json, markdown, sarif")
	}
	if cfg.Output.Marker != "" {
		if cfg.Output.Format != FormatMarkdown {
			return fmt.Errorf("output.marker requires output.format=markdown")
		}
		if cfg.Output.Path == "" || cfg.Output.Path == "-" {
			return fmt.Errorf("output.marker requires output.path")
		}
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	path := strings.TrimSpace(cfg.History.Path)
	if path == "" {
		return fmt.Errorf("history.path must not be empty when history.enabled=true")
	}
	if cfg.History.Keep < 0 {
		return fmt.Errorf("history.keep must not be negative")
	}
	out := strings.TrimSpace(cfg.Output.Path)
	if out != "" && helpers.IsPathOverlap(filepath.Clean(out), filepath.Clean(path)) {
		return fmt.Errorf("output conflict: output.path and history.path share the same path %q", path)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Metrics.Enabled && strings.TrimSpace(cfg.Observability.Metrics.Address) == "" {
		return fmt.Errorf("observability.metrics.address must not be empty when metrics are enabled")
	}
	if cfg.Observability.Tracing.Enabled && strings.TrimSpace(cfg.Observability.Tracing.Endpoint) == "" {
		return fmt.Errorf("observability.tracing.endpoint must not be empty when tracing is enabled")
	}
	return nil
}

// Validate runs every check and returns all failures, in section order.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateInput,
		validateWatch,
		validateOutput,
		validateHistory,
		validateObservability,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ValidateRoots reports input roots that do not exist. It is kept apart
// from Validate so a config can be loaded before its inputs are created.
func ValidateRoots(cfg *Config, base string) []error {
	var errs []error
	for i, root := range cfg.Input.Roots {
		path := ResolveRelative(base, root)
		if _, err := os.Stat(path); err != nil {
			errs = append(errs, fmt.Errorf("input.roots[%d] %q does not exist", i, root))
		}
	}
	return errs
}
