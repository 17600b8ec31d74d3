package memory

import (
	"context"
	"sync"
	"time"

	"github.com/capao/capitascore/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu      sync.RWMutex
	byRunID map[string]syncrun.Run
	nextID  int64
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{
		byRunID: make(map[string]syncrun.Run),
		nextID:  1,
	}
}

func (r *SyncRunRepository) Create(_ context.Context, run syncrun.Run) (syncrun.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	run.ID = r.nextID
	r.nextID++
	run.CreatedAt = now
	run.UpdatedAt = now
	r.byRunID[run.RunID] = run
	return run, nil
}

func (r *SyncRunRepository) Update(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byRunID[run.RunID]
	if !ok {
		return syncrun.ErrNotFound
	}

	run.ID = existing.ID
	run.CreatedAt = existing.CreatedAt
	run.UpdatedAt = time.Now().UTC()
	r.byRunID[run.RunID] = run
	return nil
}

func (r *SyncRunRepository) GetByRunID(_ context.Context, runID string) (syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.byRunID[runID]
	if !ok {
		return syncrun.Run{}, syncrun.ErrNotFound
	}
	return run, nil
}
