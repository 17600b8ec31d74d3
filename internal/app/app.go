package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/capao/capitascore/external/riot"
	"github.com/capao/capitascore/internal/config"
	"github.com/capao/capitascore/internal/domain/match"
	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/domain/metric"
	"github.com/capao/capitascore/internal/domain/syncrun"
	"github.com/capao/capitascore/internal/domain/timeline"
	"github.com/capao/capitascore/internal/infrastructure/repository/memory"
	"github.com/capao/capitascore/internal/infrastructure/repository/postgres"
	"github.com/capao/capitascore/internal/interfaces/httpapi"
	"github.com/capao/capitascore/internal/platform/cache"
	"github.com/capao/capitascore/internal/platform/id"
	"github.com/capao/capitascore/internal/platform/logging"
	"github.com/capao/capitascore/internal/platform/ratelimit"
	"github.com/capao/capitascore/internal/scheduler"
	"github.com/capao/capitascore/internal/usecase"
)

// App owns the wired HTTP server, the optional cron scheduler and the
// resources that need closing on shutdown.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler

	logger *logging.Logger
	db     *sqlx.DB
}

type repositories struct {
	members   member.Repository
	matches   match.Repository
	metrics   metric.Repository
	syncRuns  syncrun.Repository
	timelines timeline.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{logger: logger}

	repos, err := app.buildRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	var provider usecase.MatchProvider
	if cfg.RiotEnabled {
		provider = riot.NewClient(riot.ClientConfig{
			BaseURL:        cfg.RiotBaseURL,
			APIKey:         cfg.RiotAPIKey,
			Timeout:        cfg.RiotTimeout,
			MaxRetries:     cfg.RiotMaxRetries,
			Logger:         logger,
			CircuitBreaker: cfg.RiotCircuit,
		})
	} else {
		logger.Info("riot client disabled", "reason", "RIOT_ENABLED=false")
	}

	matchSync := usecase.NewMatchSyncService(
		provider,
		repos.members,
		repos.matches,
		logger,
		cfg.SyncDefaultStart,
		cfg.SyncDefaultCount,
	)
	rosterSync := usecase.NewRosterSyncService(
		repos.members,
		matchSync,
		repos.syncRuns,
		ratelimit.NewTokenBucket(cfg.SyncRateInterval, cfg.SyncRateBurst),
		id.NewRandomGenerator(),
		logger,
		cfg.SyncDefaultStart,
		cfg.SyncDefaultCount,
	)
	metricsService := usecase.NewMetricsService(repos.metrics, store, logger, cfg.MetricsWorkers)
	rankingService := usecase.NewRankingService(repos.metrics, store, logger, cfg.RankingMinGames)
	memberService := usecase.NewMemberService(repos.members, logger)
	timelineService := usecase.NewTimelineService(repos.timelines, logger)

	handler := httpapi.NewHandler(memberService, matchSync, rosterSync, metricsService, rankingService, timelineService, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		InternalJobToken: cfg.InternalJobToken,
		CORSOrigins:      cfg.CORSAllowedOrigins,
	})

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	app.Scheduler = scheduler.New(rosterSync, logger, cfg.SyncCron, cfg.SyncDefaultStart, cfg.SyncDefaultCount)

	return app, nil
}

// buildRepositories opens the instrumented database handle when DB_URL is
// configured and falls back to seeded in-memory repositories otherwise.
func (a *App) buildRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if cfg.DBURL == "" {
		a.logger.Info("database disabled, using in-memory repositories", "reason", "DB_URL empty")
		members := memory.NewMemberRepository(memory.SeedMembers()...)
		matches := memory.NewMatchRepository()
		return repositories{
			members:   members,
			matches:   matches,
			metrics:   memory.NewMetricRepository(matches, members),
			syncRuns:  memory.NewSyncRunRepository(),
			timelines: memory.NewTimelineRepository(matches),
		}, nil
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinaryRes)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	a.db = db

	return repositories{
		members:   postgres.NewMemberRepository(db),
		matches:   postgres.NewMatchRepository(db),
		metrics:   postgres.NewMetricRepository(db),
		syncRuns:  postgres.NewSyncRunRepository(db),
		timelines: postgres.NewTimelineRepository(db),
	}, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
