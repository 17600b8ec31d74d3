package syncrun

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("sync run not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Scope string

const (
	ScopeRoster Scope = "roster"
	ScopeMember Scope = "member"
)

// Run records one background sync job so its outcome can be read back after
// the triggering request has returned.
type Run struct {
	ID              int64
	RunID           string
	Scope           Scope
	PUUID           string
	StartIndex      int
	Count           int
	Status          Status
	MemberTotal     int
	MemberSynced    int
	MemberFailed    int
	MatchesIngested int
	MatchesSkipped  int
	LastError       string
	StartedAt       *time.Time
	FinishedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r Run) Terminal() bool {
	return r.Status == StatusSucceeded || r.Status == StatusFailed
}

type Repository interface {
	Create(ctx context.Context, run Run) (Run, error)
	Update(ctx context.Context, run Run) error
	GetByRunID(ctx context.Context, runID string) (Run, error)
}
