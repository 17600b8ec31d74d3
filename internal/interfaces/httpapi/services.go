package httpapi

import (
	"context"

	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/domain/metric"
	"github.com/capao/capitascore/internal/domain/syncrun"
	"github.com/capao/capitascore/internal/domain/timeline"
	"github.com/capao/capitascore/internal/usecase"
)

type MemberService interface {
	List(ctx context.Context) ([]member.Member, error)
	Create(ctx context.Context, input usecase.CreateMemberInput) (member.Member, error)
}

type MatchSyncService interface {
	SyncMatches(ctx context.Context, puuid string, start, count int) (usecase.MatchSyncReport, error)
}

type RosterSyncService interface {
	StartRosterSync(ctx context.Context, start, count int) (string, error)
	GetRun(ctx context.Context, runID string) (syncrun.Run, error)
}

type MetricsService interface {
	Compute(ctx context.Context) (usecase.ComputeReport, error)
}

type RankingService interface {
	Ranking(ctx context.Context, minGames int) ([]metric.RankingRow, error)
}

type TimelineService interface {
	GetRawTimeline(ctx context.Context, matchID string) (timeline.Blob, error)
}
