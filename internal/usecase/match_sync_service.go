package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/capao/capitascore/internal/domain/match"
	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/observability"
	"github.com/capao/capitascore/internal/platform/logging"
)

const maxParticipantsPerMatch = 10

// MatchSyncReport summarizes one player-window ingestion pass.
type MatchSyncReport struct {
	Requested int `json:"requested"`
	Listed    int `json:"listed"`
	Ingested  int `json:"ingested"`
	Skipped   int `json:"skipped"`
}

// MatchSyncService pulls one player's recent match window from the upstream
// provider and persists every match not yet stored. Ingestion is
// insert-only: a match already present is never touched again.
type MatchSyncService struct {
	provider MatchProvider
	members  member.Repository
	matches  match.Repository
	logger   *logging.Logger

	defaultStart int
	defaultCount int
}

func NewMatchSyncService(
	provider MatchProvider,
	members member.Repository,
	matches match.Repository,
	logger *logging.Logger,
	defaultStart int,
	defaultCount int,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultStart < 0 {
		defaultStart = 0
	}
	if defaultCount <= 0 {
		defaultCount = 10
	}
	return &MatchSyncService{
		provider:     provider,
		members:      members,
		matches:      matches,
		logger:       logger,
		defaultStart: defaultStart,
		defaultCount: defaultCount,
	}
}

// SyncMatches ingests the [start, start+count) window of the player's match
// history. A negative start or non-positive count falls back to the
// configured window defaults. Matches are processed in upstream order; the
// first failure aborts the remaining ids while already committed matches
// stay committed.
func (s *MatchSyncService) SyncMatches(ctx context.Context, puuid string, start, count int) (MatchSyncReport, error) {
	ctx, span := startSpan(ctx, "MatchSyncService.SyncMatches")
	defer span.End()

	if start < 0 {
		start = s.defaultStart
	}
	if count <= 0 {
		count = s.defaultCount
	}

	report := MatchSyncReport{Requested: count}

	puuid = strings.TrimSpace(puuid)
	if puuid == "" {
		return report, fmt.Errorf("%w: puuid is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return report, fmt.Errorf("%w: match provider is not configured", ErrDependencyUnavailable)
	}

	membersByPUUID, err := s.rosterIndex(ctx)
	if err != nil {
		return report, err
	}

	ids, err := s.provider.ListMatchIDs(ctx, puuid, start, count)
	if err != nil {
		return report, fmt.Errorf("list match ids for %s: %w", puuid, err)
	}
	report.Listed = len(ids)

	for _, matchID := range ids {
		inserted, err := s.ingestMatch(ctx, matchID, membersByPUUID)
		if err != nil {
			return report, err
		}
		if inserted {
			report.Ingested++
			observability.MatchesIngested.Inc()
		} else {
			report.Skipped++
			observability.MatchesSkipped.Inc()
		}
	}

	s.logger.InfoContext(ctx, "match window synced",
		"puuid", puuid,
		"start", start,
		"count", count,
		"listed", report.Listed,
		"ingested", report.Ingested,
		"skipped", report.Skipped,
	)

	return report, nil
}

// ingestMatch stores one match if absent. The existence pre-check only
// avoids upstream fetches; the insert itself stays conflict-safe, so a
// concurrent writer winning the race is reported as skipped.
func (s *MatchSyncService) ingestMatch(ctx context.Context, matchID string, membersByPUUID map[string]member.Member) (bool, error) {
	exists, err := s.matches.Exists(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("check match %s: %w", matchID, err)
	}
	if exists {
		return false, nil
	}

	ext, err := s.provider.FetchMatch(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("fetch match %s: %w", matchID, err)
	}
	if got := len(ext.Info.Participants); got == 0 || got > maxParticipantsPerMatch {
		return false, fmt.Errorf("match %s has %d participants", matchID, got)
	}
	if ext.Metadata.MatchID != "" && ext.Metadata.MatchID != matchID {
		return false, fmt.Errorf("match %s detail reports id %s", matchID, ext.Metadata.MatchID)
	}

	rawTimeline, err := s.provider.FetchRawTimeline(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("fetch timeline %s: %w", matchID, err)
	}

	m, participants := mapExternalMatch(ext, membersByPUUID)
	m.MatchID = matchID

	inserted, err := s.matches.InsertIfAbsent(ctx, m, participants, rawTimeline)
	if err != nil {
		return false, fmt.Errorf("store match %s: %w", matchID, err)
	}

	return inserted, nil
}

func (s *MatchSyncService) rosterIndex(ctx context.Context) (map[string]member.Member, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	index := make(map[string]member.Member, len(members))
	for _, m := range members {
		index[m.PUUID] = m
	}
	return index, nil
}
