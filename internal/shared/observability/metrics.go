package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "semant_stage_seconds",
		Help:    "Time spent in one semantic analysis stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	ReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semant_reports_total",
		Help: "Total number of semantic reports, by category and severity.",
	}, []string{"category", "severity"})

	ClassesVerified = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "semant_classes_verified",
		Help: "Number of classes reachable from Object in the last run.",
	})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semant_runs_total",
		Help: "Total number of analysis runs, by outcome.",
	}, []string{"result"})

	InputFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "semant_input_files",
		Help: "Number of AST documents loaded by the last run.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semant_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatchRunsThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semant_watch_runs_throttled_total",
		Help: "Total number of watch-triggered runs that waited on the rate limiter.",
	})

	HistoryWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semant_history_writes_total",
		Help: "Total number of run history writes, by outcome.",
	}, []string{"result"})
)
