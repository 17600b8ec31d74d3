package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capao/capitascore/internal/platform/logging"
)

type RouterConfig struct {
	InternalJobToken string
	CORSOrigins      []string
}

// NewRouter wires the routes and the middleware chain: tracing wraps
// logging wraps CORS wraps panic recovery wraps the mux.
func NewRouter(h *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ranking", h.Ranking)
	mux.HandleFunc("GET /v1/members", h.ListMembers)
	mux.Handle("POST /v1/members",
		RequireInternalJobToken(cfg.InternalJobToken, http.HandlerFunc(h.CreateMember)))

	mux.Handle("POST /v1/internal/sync/members/{puuid}",
		RequireInternalJobToken(cfg.InternalJobToken, http.HandlerFunc(h.SyncMember)))
	mux.Handle("POST /v1/internal/sync/roster",
		RequireInternalJobToken(cfg.InternalJobToken, http.HandlerFunc(h.StartRosterSync)))
	mux.Handle("GET /v1/internal/sync/runs/{runID}",
		RequireInternalJobToken(cfg.InternalJobToken, http.HandlerFunc(h.GetSyncRun)))
	mux.Handle("GET /v1/internal/matches/{matchID}/timeline",
		RequireInternalJobToken(cfg.InternalJobToken, http.HandlerFunc(h.GetMatchTimeline)))
	mux.Handle("POST /v1/internal/metrics/compute",
		RequireInternalJobToken(cfg.InternalJobToken, http.HandlerFunc(h.ComputeMetrics)))

	return RequestTracing(
		RequestLogging(logger,
			CORS(cfg.CORSOrigins,
				recoverPanic(logger, mux))))
}
