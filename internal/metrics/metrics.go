package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "xsearch_pages_fetched_total",
		Help: "Total search result pages fetched",
	})
	RecordsCollected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "xsearch_records_collected_total",
		Help: "Total normalized records collected",
	})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "xsearch_run_duration_seconds",
		Help:    "Search run duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	APIErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xsearch_api_errors_total",
		Help: "Search API errors that stopped pagination, by kind",
	}, []string{"kind"})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xsearch_api_retries_total",
		Help: "Total API retry attempts",
	}, []string{"endpoint"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xsearch_command_runs_total",
		Help: "CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xsearch_command_errors_total",
		Help: "CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(PagesFetched, RecordsCollected, RunDuration, APIErrors, APIRetries, CommandRuns, CommandErrors)
}

// WriteTextfile dumps the default registry in the node-exporter textfile format.
// A one-shot CLI has no scrape window, so this replaces a /metrics endpoint.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// ObserveRunDuration records a run duration.
func ObserveRunDuration(start time.Time) {
	RunDuration.Observe(time.Since(start).Seconds())
}

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }

// IncAPIError counts a pagination-stopping error by kind.
func IncAPIError(kind string) { APIErrors.WithLabelValues(kind).Inc() }

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
