package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/domain/syncrun"
	"github.com/capao/capitascore/internal/observability"
	"github.com/capao/capitascore/internal/platform/id"
	"github.com/capao/capitascore/internal/platform/logging"
	"github.com/capao/capitascore/internal/platform/ratelimit"
)

// MemberFailure records one roster member whose sync failed.
type MemberFailure struct {
	PUUID  string `json:"puuid"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// RosterSyncReport summarizes one pass over the tracked roster.
type RosterSyncReport struct {
	MemberTotal     int             `json:"memberTotal"`
	MemberSynced    int             `json:"memberSynced"`
	MemberFailed    int             `json:"memberFailed"`
	MatchesIngested int             `json:"matchesIngested"`
	MatchesSkipped  int             `json:"matchesSkipped"`
	Failures        []MemberFailure `json:"failures,omitempty"`
}

type matchSyncer interface {
	SyncMatches(ctx context.Context, puuid string, start, count int) (MatchSyncReport, error)
}

// RosterSyncService walks the active roster sequentially, pacing each member
// against the injected rate limiter. A member failure is logged, counted and
// skipped; the pass continues with the next member.
type RosterSyncService struct {
	members   member.Repository
	matchSync matchSyncer
	runs      syncrun.Repository
	pacer     ratelimit.Pacer
	idgen     id.Generator
	logger    *logging.Logger

	defaultStart int
	defaultCount int
}

func NewRosterSyncService(
	members member.Repository,
	matchSync matchSyncer,
	runs syncrun.Repository,
	pacer ratelimit.Pacer,
	idgen id.Generator,
	logger *logging.Logger,
	defaultStart int,
	defaultCount int,
) *RosterSyncService {
	if pacer == nil {
		pacer = ratelimit.NoopPacer{}
	}
	if idgen == nil {
		idgen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if defaultStart < 0 {
		defaultStart = 0
	}
	if defaultCount <= 0 {
		defaultCount = 10
	}
	return &RosterSyncService{
		members:      members,
		matchSync:    matchSync,
		runs:         runs,
		pacer:        pacer,
		idgen:        idgen,
		logger:       logger,
		defaultStart: defaultStart,
		defaultCount: defaultCount,
	}
}

// SyncRoster runs one roster pass inline. Context cancellation during a
// pacer wait stops the loop; the partial report is returned without error.
func (s *RosterSyncService) SyncRoster(ctx context.Context, start, count int) (RosterSyncReport, error) {
	ctx, span := startSpan(ctx, "RosterSyncService.SyncRoster")
	defer span.End()

	start, count = s.applyDefaults(start, count)

	var report RosterSyncReport
	members, err := s.members.ListActive(ctx)
	if err != nil {
		return report, fmt.Errorf("list active members: %w", err)
	}
	report.MemberTotal = len(members)

	for _, m := range members {
		if err := s.pacer.Wait(ctx); err != nil {
			s.logger.WarnContext(ctx, "roster sync stopped",
				"reason", err,
				"member_synced", report.MemberSynced,
				"member_total", report.MemberTotal,
			)
			break
		}

		memberReport, err := s.matchSync.SyncMatches(ctx, m.PUUID, start, count)
		report.MatchesIngested += memberReport.Ingested
		report.MatchesSkipped += memberReport.Skipped
		if err != nil {
			report.MemberFailed++
			report.Failures = append(report.Failures, MemberFailure{
				PUUID:  m.PUUID,
				Name:   m.DisplayName(),
				Reason: err.Error(),
			})
			s.logger.ErrorContext(ctx, "member sync failed",
				"puuid", m.PUUID,
				"name", m.DisplayName(),
				"error", err,
			)
			continue
		}
		report.MemberSynced++
	}

	return report, nil
}

// StartRosterSync registers a sync run and executes the roster pass on a
// detached goroutine. The returned run id can be polled via GetRun.
func (s *RosterSyncService) StartRosterSync(ctx context.Context, start, count int) (string, error) {
	ctx, span := startSpan(ctx, "RosterSyncService.StartRosterSync")
	defer span.End()

	start, count = s.applyDefaults(start, count)

	runID, err := s.idgen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}

	run, err := s.runs.Create(ctx, syncrun.Run{
		RunID:      runID,
		Scope:      syncrun.ScopeRoster,
		StartIndex: start,
		Count:      count,
		Status:     syncrun.StatusPending,
	})
	if err != nil {
		return "", fmt.Errorf("create sync run: %w", err)
	}

	// The run outlives the triggering request but keeps its trace.
	go s.executeRun(context.WithoutCancel(ctx), run, start, count)

	return runID, nil
}

func (s *RosterSyncService) executeRun(ctx context.Context, run syncrun.Run, start, count int) {
	now := time.Now().UTC()
	run.Status = syncrun.StatusRunning
	run.StartedAt = &now
	if err := s.runs.Update(ctx, run); err != nil {
		s.logger.ErrorContext(ctx, "mark sync run running failed", "run_id", run.RunID, "error", err)
	}

	report, err := s.SyncRoster(ctx, start, count)

	run.MemberTotal = report.MemberTotal
	run.MemberSynced = report.MemberSynced
	run.MemberFailed = report.MemberFailed
	run.MatchesIngested = report.MatchesIngested
	run.MatchesSkipped = report.MatchesSkipped

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	switch {
	case err != nil:
		run.Status = syncrun.StatusFailed
		run.LastError = err.Error()
	default:
		run.Status = syncrun.StatusSucceeded
		if len(report.Failures) > 0 {
			run.LastError = report.Failures[len(report.Failures)-1].Reason
		}
	}

	if err := s.runs.Update(ctx, run); err != nil {
		s.logger.ErrorContext(ctx, "finish sync run failed", "run_id", run.RunID, "error", err)
		return
	}

	observability.SyncRunsFinished.WithLabelValues(string(run.Status)).Inc()
	s.logger.InfoContext(ctx, "sync run finished",
		"run_id", run.RunID,
		"status", run.Status,
		"member_total", run.MemberTotal,
		"member_synced", run.MemberSynced,
		"member_failed", run.MemberFailed,
		"matches_ingested", run.MatchesIngested,
		"matches_skipped", run.MatchesSkipped,
	)
}

// GetRun returns the stored record for one background sync run.
func (s *RosterSyncService) GetRun(ctx context.Context, runID string) (syncrun.Run, error) {
	ctx, span := startSpan(ctx, "RosterSyncService.GetRun")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return syncrun.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}

	run, err := s.runs.GetByRunID(ctx, runID)
	if err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, fmt.Errorf("%w: sync run %s", ErrNotFound, runID)
		}
		return syncrun.Run{}, fmt.Errorf("get sync run %s: %w", runID, err)
	}
	return run, nil
}

func (s *RosterSyncService) applyDefaults(start, count int) (int, int) {
	if start < 0 {
		start = s.defaultStart
	}
	if count <= 0 {
		count = s.defaultCount
	}
	return start, count
}
