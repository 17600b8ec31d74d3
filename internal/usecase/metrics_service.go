package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/capao/capitascore/internal/domain/metric"
	"github.com/capao/capitascore/internal/observability"
	"github.com/capao/capitascore/internal/platform/cache"
	"github.com/capao/capitascore/internal/platform/logging"
)

const rankingCachePrefix = "ranking:"

// ComputeReport summarizes one metrics pass.
type ComputeReport struct {
	MatchesScanned int `json:"matchesScanned"`
	MatchesScored  int `json:"matchesScored"`
	MatchesSkipped int `json:"matchesSkipped"`
	MatchesFailed  int `json:"matchesFailed"`
	RowsUpserted   int `json:"rowsUpserted"`
}

// MetricsService scores every stored match that has a timeline but no
// metric rows yet. Matches are independent, so they are fanned out over a
// worker pool; a match that fails to parse is counted and skipped.
type MetricsService struct {
	metrics metric.Repository
	store   *cache.Store
	logger  *logging.Logger
	workers int
}

func NewMetricsService(metrics metric.Repository, store *cache.Store, logger *logging.Logger, workers int) *MetricsService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 4
	}
	return &MetricsService{
		metrics: metrics,
		store:   store,
		logger:  logger,
		workers: workers,
	}
}

func (s *MetricsService) Compute(ctx context.Context) (ComputeReport, error) {
	ctx, span := startSpan(ctx, "MetricsService.Compute")
	defer span.End()

	var report ComputeReport

	pending, err := s.metrics.ListPending(ctx, 0)
	if err != nil {
		return report, fmt.Errorf("list pending matches: %w", err)
	}
	report.MatchesScanned = len(pending)
	if len(pending) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, pendingMatch := range pending {
		wg.Add(1)
		task := pendingMatch
		submitErr := pool.Submit(func() {
			defer wg.Done()

			rows, err := computeMatchMetrics(task)
			if err != nil {
				s.logger.ErrorContext(ctx, "score match failed", "match_id", task.MatchID, "error", err)
				mu.Lock()
				report.MatchesFailed++
				mu.Unlock()
				return
			}
			if len(rows) == 0 {
				mu.Lock()
				report.MatchesSkipped++
				mu.Unlock()
				return
			}

			if err := s.metrics.UpsertMany(ctx, rows); err != nil {
				s.logger.ErrorContext(ctx, "store match metrics failed", "match_id", task.MatchID, "error", err)
				mu.Lock()
				report.MatchesFailed++
				mu.Unlock()
				return
			}

			observability.MetricRowsUpserted.Add(float64(len(rows)))
			mu.Lock()
			report.MatchesScored++
			report.RowsUpserted += len(rows)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.MatchesFailed++
			mu.Unlock()
		}
	}

	wg.Wait()

	if s.store != nil && report.RowsUpserted > 0 {
		s.store.DeletePrefix(ctx, rankingCachePrefix)
	}

	s.logger.InfoContext(ctx, "metrics computed",
		"scanned", report.MatchesScanned,
		"scored", report.MatchesScored,
		"skipped", report.MatchesSkipped,
		"failed", report.MatchesFailed,
		"rows", report.RowsUpserted,
	)

	return report, nil
}
