package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncsStartedTotal counts sync jobs accepted for execution
	SyncsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_syncs_started_total",
		Help: "Total number of catalog sync jobs started",
	})

	// SyncsCompletedTotal counts sync jobs that reached completed status
	SyncsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_syncs_completed_total",
		Help: "Total number of catalog sync jobs completed successfully",
	})

	// SyncsFailedTotal counts failed sync jobs by failing stage
	SyncsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_syncs_failed_total",
		Help: "Total number of catalog sync jobs failed",
	}, []string{"stage"})

	// SyncDuration observes end-to-end sync duration in seconds
	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_sync_duration_seconds",
		Help:    "End-to-end catalog sync duration",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	// StatusWriteFailures counts swallowed best-effort status write errors
	StatusWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_sync_status_write_failures_total",
		Help: "Total number of best-effort job status writes that failed",
	})
)
