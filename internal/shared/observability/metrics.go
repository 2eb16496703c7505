package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "idiomlint_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	LinkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "idiomlint_link_seconds",
		Help:    "Time spent assembling the program and binding names.",
		Buckets: prometheus.DefBuckets,
	})

	CheckDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "idiomlint_check_seconds",
		Help:    "Time spent running a single check over the program.",
		Buckets: prometheus.DefBuckets,
	}, []string{"check"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idiomlint_diagnostics_total",
		Help: "Total number of diagnostics reported, by check.",
	}, []string{"check"})

	InternalErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idiomlint_internal_errors_total",
		Help: "Total number of nodes a check failed on and skipped.",
	}, []string{"check"})

	FilesAnalyzed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "idiomlint_files_analyzed",
		Help: "Number of source files in the last analysis run.",
	})

	ParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "idiomlint_parse_failures_total",
		Help: "Total number of files skipped because they could not be read or parsed.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "idiomlint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatchRunsThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "idiomlint_watch_runs_throttled_total",
		Help: "Total number of watch-mode re-runs delayed by the run throttle.",
	})
)
