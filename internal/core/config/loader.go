package config

import (
	"os"
	"strings"
	"time"

	"semant/internal/core/errors"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.AddContext(errors.Wrap(errs[0], errors.CodeValidationError, "invalid config"), errors.CtxPath, path)
	}

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.IsCode(err, errors.CodeNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Input.Roots) == 0 {
		cfg.Input.Roots = []string{"."}
	}
	if len(cfg.Input.Include) == 0 {
		cfg.Input.Include = []string{"*.ast.json"}
	}
	if cfg.Input.Exclude.Dirs == nil {
		cfg.Input.Exclude.Dirs = []string{".git", "node_modules"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.Rate <= 0 {
		cfg.Watch.Rate = 2
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = FormatText
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "data/semant-history.db"
	}
	if cfg.History.BusyTimeout <= 0 {
		cfg.History.BusyTimeout = 5 * time.Second
	}

	if strings.TrimSpace(cfg.Observability.Metrics.Address) == "" {
		cfg.Observability.Metrics.Address = "127.0.0.1:9464"
	}
	if strings.TrimSpace(cfg.Observability.Tracing.ServiceName) == "" {
		cfg.Observability.Tracing.ServiceName = "semant"
	}
}

func normalize(cfg *Config) {
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.Path = strings.TrimSpace(cfg.Output.Path)
	cfg.Output.Marker = strings.TrimSpace(cfg.Output.Marker)
	cfg.History.Path = strings.TrimSpace(cfg.History.Path)
	cfg.Input.Roots = trimAll(cfg.Input.Roots)
	cfg.Input.Include = trimAll(cfg.Input.Include)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
