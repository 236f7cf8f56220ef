package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provenance_snapshot_requests_total",
		Help: "Total number of snapshot reads, labelled by snapshot kind and cache outcome.",
	}, []string{"kind", "outcome"})

	FetchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_fetch_queries_total",
		Help: "Total number of filtered log queries issued against the ledger source.",
	})

	FetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_fetch_retries_total",
		Help: "Total number of retried log queries after transient source failures.",
	})

	DroppedLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_dropped_lookups_total",
		Help: "Total number of events dropped because their timestamp lookup failed.",
	})

	MalformedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_malformed_records_total",
		Help: "Total number of raw log records skipped as structurally malformed.",
	})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "provenance_fetch_duration_seconds",
		Help:    "End-to-end duration of one FetchEvents call including timestamp resolution.",
		Buckets: prometheus.DefBuckets,
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provenance_http_request_duration_seconds",
		Help:    "HTTP request latency, labelled by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)
