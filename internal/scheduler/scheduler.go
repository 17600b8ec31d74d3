package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/capao/capitascore/internal/platform/logging"
	"github.com/capao/capitascore/internal/usecase"
)

// Scheduler triggers background roster syncs on a cron schedule. An empty
// spec disables it.
type Scheduler struct {
	cron   *cron.Cron
	roster *usecase.RosterSyncService
	logger *logging.Logger
	spec   string
	start  int
	count  int
}

func New(roster *usecase.RosterSyncService, logger *logging.Logger, spec string, start, count int) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		roster: roster,
		logger: logger,
		spec:   spec,
		start:  start,
		count:  count,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Info("roster sync schedule disabled", "reason", "SYNC_CRON empty")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		runID, err := s.roster.StartRosterSync(ctx, s.start, s.count)
		if err != nil {
			s.logger.ErrorContext(ctx, "scheduled roster sync failed to start", "error", err)
			return
		}
		s.logger.InfoContext(ctx, "scheduled roster sync started", "run_id", runID)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("roster sync schedule enabled", "spec", s.spec)
	return nil
}

// Stop halts scheduling and waits for a running trigger to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
