package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capitascore_matches_ingested_total",
		Help: "Matches inserted during sync.",
	})

	MatchesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capitascore_matches_skipped_total",
		Help: "Matches skipped during sync because they were already stored.",
	})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capitascore_upstream_requests_total",
		Help: "Upstream match API requests by endpoint and status code.",
	}, []string{"endpoint", "status"})

	SyncRunsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capitascore_sync_runs_finished_total",
		Help: "Background sync runs by terminal status.",
	}, []string{"status"})

	MetricRowsUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capitascore_metric_rows_upserted_total",
		Help: "Player match metric rows written by the compute job.",
	})
)
