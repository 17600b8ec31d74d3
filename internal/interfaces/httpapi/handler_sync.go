package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/capao/capitascore/internal/domain/syncrun"
)

type syncRunResponse struct {
	RunID           string     `json:"runId"`
	Scope           string     `json:"scope"`
	Status          string     `json:"status"`
	StartIndex      int        `json:"startIndex"`
	Count           int        `json:"count"`
	MemberTotal     int        `json:"memberTotal"`
	MemberSynced    int        `json:"memberSynced"`
	MemberFailed    int        `json:"memberFailed"`
	MatchesIngested int        `json:"matchesIngested"`
	MatchesSkipped  int        `json:"matchesSkipped"`
	LastError       string     `json:"lastError,omitempty"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toSyncRunResponse(run syncrun.Run) syncRunResponse {
	return syncRunResponse{
		RunID:           run.RunID,
		Scope:           string(run.Scope),
		Status:          string(run.Status),
		StartIndex:      run.StartIndex,
		Count:           run.Count,
		MemberTotal:     run.MemberTotal,
		MemberSynced:    run.MemberSynced,
		MemberFailed:    run.MemberFailed,
		MatchesIngested: run.MatchesIngested,
		MatchesSkipped:  run.MatchesSkipped,
		LastError:       run.LastError,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		CreatedAt:       run.CreatedAt,
	}
}

// SyncMember ingests one player's match window inline and returns the
// report.
func (h *Handler) SyncMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Handler.SyncMember")
	defer span.End()

	puuid := strings.TrimSpace(r.PathValue("puuid"))
	start, ok := parseQueryInt(w, r, "start", -1)
	if !ok {
		return
	}
	count, ok := parseQueryInt(w, r, "count", -1)
	if !ok {
		return
	}

	report, err := h.matches.SyncMatches(ctx, puuid, start, count)
	if err != nil {
		writeUsecaseError(ctx, w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, report)
}

// StartRosterSync registers a background roster pass and returns 202 with
// the run id.
func (h *Handler) StartRosterSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Handler.StartRosterSync")
	defer span.End()

	start, ok := parseQueryInt(w, r, "start", -1)
	if !ok {
		return
	}
	count, ok := parseQueryInt(w, r, "count", -1)
	if !ok {
		return
	}

	runID, err := h.roster.StartRosterSync(ctx, start, count)
	if err != nil {
		writeUsecaseError(ctx, w, h.logger, err)
		return
	}
	writeData(w, http.StatusAccepted, map[string]string{"runId": runID})
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Handler.GetSyncRun")
	defer span.End()

	run, err := h.roster.GetRun(ctx, r.PathValue("runID"))
	if err != nil {
		writeUsecaseError(ctx, w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, toSyncRunResponse(run))
}

type matchTimelineResponse struct {
	MatchID    string          `json:"matchId"`
	IngestedAt time.Time       `json:"ingestedAt"`
	Timeline   json.RawMessage `json:"timeline"`
}

// GetMatchTimeline serves the archived raw timeline document for one match.
func (h *Handler) GetMatchTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Handler.GetMatchTimeline")
	defer span.End()

	blob, err := h.timelines.GetRawTimeline(ctx, r.PathValue("matchID"))
	if err != nil {
		writeUsecaseError(ctx, w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, matchTimelineResponse{
		MatchID:    blob.MatchID,
		IngestedAt: blob.IngestedAt,
		Timeline:   json.RawMessage(blob.RawJSON),
	})
}

func (h *Handler) ComputeMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Handler.ComputeMetrics")
	defer span.End()

	report, err := h.metrics.Compute(ctx)
	if err != nil {
		writeUsecaseError(ctx, w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, report)
}

// parseQueryInt reads an optional non-negative integer query parameter.
// Absence yields fallback; a malformed value writes a 400 and returns
// ok=false.
func parseQueryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "query parameter "+name+" must be a non-negative integer")
		return 0, false
	}
	return value, true
}
