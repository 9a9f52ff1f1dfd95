package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolvedPaths holds the config's paths made absolute against a base
// directory, usually the directory holding the config file.
type ResolvedPaths struct {
	Base        string
	Roots       []string
	OutputPath  string
	HistoryPath string
}

func ResolvePaths(cfg *Config, base string) (ResolvedPaths, error) {
	if strings.TrimSpace(base) == "" {
		return ResolvedPaths{}, fmt.Errorf("base directory must not be empty")
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return ResolvedPaths{}, err
	}

	roots := make([]string, 0, len(cfg.Input.Roots))
	for _, root := range cfg.Input.Roots {
		roots = append(roots, ResolveRelative(base, root))
	}

	var out string
	if cfg.Output.Path != "" && cfg.Output.Path != "-" {
		out = ResolveRelative(base, cfg.Output.Path)
	}

	return ResolvedPaths{
		Base:        base,
		Roots:       roots,
		OutputPath:  out,
		HistoryPath: ResolveRelative(base, cfg.History.Path),
	}, nil
}

func ResolveRelative(base, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Clean(filepath.Join(base, value))
}
