package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: SEMANT_[SECTION]_[KEY] (e.g., SEMANT_OUTPUT_FORMAT).
func ApplyEnvOverrides(cfg *Config) {
	// Input
	setEnvList(&cfg.Input.Roots, "SEMANT_INPUT_ROOTS")
	setEnvList(&cfg.Input.Include, "SEMANT_INPUT_INCLUDE")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "SEMANT_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.Rate, "SEMANT_WATCH_RATE")
	setEnvInt(&cfg.Watch.Burst, "SEMANT_WATCH_BURST")

	// Output
	setEnvString(&cfg.Output.Format, "SEMANT_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Path, "SEMANT_OUTPUT_PATH")
	setEnvString(&cfg.Output.Marker, "SEMANT_OUTPUT_MARKER")
	if val, ok := os.LookupEnv("SEMANT_OUTPUT_COLOR"); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", "SEMANT_OUTPUT_COLOR", "value", val)
			cfg.Output.Color = &b
		}
	}

	// History
	setEnvBool(&cfg.History.Enabled, "SEMANT_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "SEMANT_HISTORY_PATH")
	setEnvInt(&cfg.History.Keep, "SEMANT_HISTORY_KEEP")

	// Observability
	setEnvBool(&cfg.Observability.Metrics.Enabled, "SEMANT_OBSERVABILITY_METRICS_ENABLED")
	setEnvString(&cfg.Observability.Metrics.Address, "SEMANT_OBSERVABILITY_METRICS_ADDRESS")
	setEnvBool(&cfg.Observability.Tracing.Enabled, "SEMANT_OBSERVABILITY_TRACING_ENABLED")
	setEnvString(&cfg.Observability.Tracing.Endpoint, "SEMANT_OBSERVABILITY_TRACING_ENDPOINT")
	setEnvBool(&cfg.Observability.Tracing.Insecure, "SEMANT_OBSERVABILITY_TRACING_INSECURE")

	normalize(cfg)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma separated value.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = strings.Split(val, ",")
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
