package config

import (
	"time"
)

// DefaultFile is the config file looked up when -config is not given.
const DefaultFile = "semant.toml"

type Config struct {
	Version       int           `toml:"version"`
	Input         Input         `toml:"input"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

// Input selects the AST documents to analyse. Roots may name files or
// directories; directories are walked and their files matched against
// Include by base name.
type Input struct {
	Roots   []string `toml:"roots"`
	Include []string `toml:"include"`
	Exclude Exclude  `toml:"exclude"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Rate is the number of re-analyses allowed per second, Burst how many
	// may run back to back.
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

// Output selects the report format and destination. A markdown report
// with a Marker replaces the marked block of an existing Path instead of
// overwriting the file.
type Output struct {
	Format string `toml:"format"`
	Path   string `toml:"path"`
	Marker string `toml:"marker"`
	Color  *bool  `toml:"color"`
}

func (o Output) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// History records every run in SQLite. Keep bounds how many runs are
// retained; zero keeps them all.
type History struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	Keep        int           `toml:"keep"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Observability struct {
	Metrics Metrics `toml:"metrics"`
	Tracing Tracing `toml:"tracing"`
}

type Metrics struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

type Tracing struct {
	Enabled     bool   `toml:"enabled"`
	Endpoint    string `toml:"endpoint"`
	Insecure    bool   `toml:"insecure"`
	ServiceName string `toml:"service_name"`
}

// Output formats understood by the report package.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatSARIF    = "sarif"
)

// DefaultConfig is the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
