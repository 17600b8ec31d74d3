package usecase

import (
	"context"
	"fmt"

	"github.com/capao/capitascore/internal/domain/metric"
	"github.com/capao/capitascore/internal/platform/cache"
	"github.com/capao/capitascore/internal/platform/logging"
)

// RankingService serves the tracked-player leaderboard ordered by average
// final score. Reads go through the TTL cache; the metrics pass invalidates
// it after writing new rows.
type RankingService struct {
	metrics         metric.Repository
	store           *cache.Store
	logger          *logging.Logger
	defaultMinGames int
}

func NewRankingService(metrics metric.Repository, store *cache.Store, logger *logging.Logger, defaultMinGames int) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultMinGames < 1 {
		defaultMinGames = 3
	}
	return &RankingService{
		metrics:         metrics,
		store:           store,
		logger:          logger,
		defaultMinGames: defaultMinGames,
	}
}

func (s *RankingService) Ranking(ctx context.Context, minGames int) ([]metric.RankingRow, error) {
	ctx, span := startSpan(ctx, "RankingService.Ranking")
	defer span.End()

	if minGames <= 0 {
		minGames = s.defaultMinGames
	}

	load := func(ctx context.Context) (any, error) {
		rows, err := s.metrics.Ranking(ctx, minGames)
		if err != nil {
			return nil, fmt.Errorf("load ranking: %w", err)
		}
		return rows, nil
	}

	if s.store == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]metric.RankingRow), nil
	}

	key := fmt.Sprintf("%smin_games=%d", rankingCachePrefix, minGames)
	value, err := s.store.GetOrLoad(ctx, key, load)
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]metric.RankingRow)
	if !ok {
		return nil, fmt.Errorf("unexpected ranking cache entry for %s", key)
	}
	return rows, nil
}
