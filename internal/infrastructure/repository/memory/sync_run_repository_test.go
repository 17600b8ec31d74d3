package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/capao/capitascore/internal/domain/syncrun"
)

func TestSyncRunRepositoryLifecycle(t *testing.T) {
	repo := NewSyncRunRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, syncrun.Run{
		RunID:  "run-1",
		Scope:  syncrun.ScopeRoster,
		Status: syncrun.StatusPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() {
		t.Fatalf("created run = %+v", created)
	}

	created.Status = syncrun.StatusSucceeded
	created.MemberSynced = 3
	if err := repo.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != syncrun.StatusSucceeded || got.MemberSynced != 3 {
		t.Fatalf("run = %+v", got)
	}
	if got.ID != created.ID || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update changed identity fields: %+v", got)
	}
}

func TestSyncRunRepositoryMissingRun(t *testing.T) {
	repo := NewSyncRunRepository()
	ctx := context.Background()

	if _, err := repo.GetByRunID(ctx, "missing"); !errors.Is(err, syncrun.ErrNotFound) {
		t.Fatalf("get err = %v, want syncrun.ErrNotFound", err)
	}
	if err := repo.Update(ctx, syncrun.Run{RunID: "missing"}); !errors.Is(err, syncrun.ErrNotFound) {
		t.Fatalf("update err = %v, want syncrun.ErrNotFound", err)
	}
}
