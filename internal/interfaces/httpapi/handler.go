package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/capao/capitascore/internal/platform/logging"
)

// Handler bundles the HTTP endpoints with their services.
type Handler struct {
	members   MemberService
	matches   MatchSyncService
	roster    RosterSyncService
	metrics   MetricsService
	ranking   RankingService
	timelines TimelineService
	logger    *logging.Logger
	validate  *validator.Validate
}

func NewHandler(
	members MemberService,
	matches MatchSyncService,
	roster RosterSyncService,
	metrics MetricsService,
	ranking RankingService,
	timelines TimelineService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		members:   members,
		matches:   matches,
		roster:    roster,
		metrics:   metrics,
		ranking:   ranking,
		timelines: timelines,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
