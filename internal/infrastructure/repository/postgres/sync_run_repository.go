package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/capao/capitascore/internal/domain/syncrun"
	"github.com/capao/capitascore/internal/platform/querybuilder"
)

const syncRunsTable = "sync_runs"

var syncRunColumns = []string{
	"id", "run_id", "scope", "puuid", "start_index", "count", "status",
	"member_total", "member_synced", "member_failed", "matches_ingested",
	"matches_skipped", "last_error", "started_at", "finished_at",
	"created_at", "updated_at",
}

type syncRunRow struct {
	ID              int64          `db:"id"`
	RunID           string         `db:"run_id"`
	Scope           string         `db:"scope"`
	PUUID           sql.NullString `db:"puuid"`
	StartIndex      int            `db:"start_index"`
	Count           int            `db:"count"`
	Status          string         `db:"status"`
	MemberTotal     int            `db:"member_total"`
	MemberSynced    int            `db:"member_synced"`
	MemberFailed    int            `db:"member_failed"`
	MatchesIngested int            `db:"matches_ingested"`
	MatchesSkipped  int            `db:"matches_skipped"`
	LastError       sql.NullString `db:"last_error"`
	StartedAt       sql.NullTime   `db:"started_at"`
	FinishedAt      sql.NullTime   `db:"finished_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r syncRunRow) toDomain() syncrun.Run {
	return syncrun.Run{
		ID:              r.ID,
		RunID:           r.RunID,
		Scope:           syncrun.Scope(r.Scope),
		PUUID:           optionalString(r.PUUID),
		StartIndex:      r.StartIndex,
		Count:           r.Count,
		Status:          syncrun.Status(r.Status),
		MemberTotal:     r.MemberTotal,
		MemberSynced:    r.MemberSynced,
		MemberFailed:    r.MemberFailed,
		MatchesIngested: r.MatchesIngested,
		MatchesSkipped:  r.MatchesSkipped,
		LastError:       optionalString(r.LastError),
		StartedAt:       optionalTime(r.StartedAt),
		FinishedAt:      optionalTime(r.FinishedAt),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Create(ctx context.Context, run syncrun.Run) (syncrun.Run, error) {
	now := time.Now().UTC()

	insert := struct {
		RunID           string         `db:"run_id"`
		Scope           string         `db:"scope"`
		PUUID           sql.NullString `db:"puuid"`
		StartIndex      int            `db:"start_index"`
		Count           int            `db:"count"`
		Status          string         `db:"status"`
		MemberTotal     int            `db:"member_total"`
		MemberSynced    int            `db:"member_synced"`
		MemberFailed    int            `db:"member_failed"`
		MatchesIngested int            `db:"matches_ingested"`
		MatchesSkipped  int            `db:"matches_skipped"`
		LastError       sql.NullString `db:"last_error"`
		StartedAt       sql.NullTime   `db:"started_at"`
		FinishedAt      sql.NullTime   `db:"finished_at"`
		CreatedAt       time.Time      `db:"created_at"`
		UpdatedAt       time.Time      `db:"updated_at"`
	}{
		RunID:           run.RunID,
		Scope:           string(run.Scope),
		PUUID:           nullableString(run.PUUID),
		StartIndex:      run.StartIndex,
		Count:           run.Count,
		Status:          string(run.Status),
		MemberTotal:     run.MemberTotal,
		MemberSynced:    run.MemberSynced,
		MemberFailed:    run.MemberFailed,
		MatchesIngested: run.MatchesIngested,
		MatchesSkipped:  run.MatchesSkipped,
		LastError:       nullableString(run.LastError),
		StartedAt:       nullableTime(run.StartedAt),
		FinishedAt:      nullableTime(run.FinishedAt),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	query, args, err := querybuilder.InsertModel(syncRunsTable, insert, "RETURNING id")
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("build create sync run query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return syncrun.Run{}, fmt.Errorf("create sync run %s: %w", run.RunID, err)
	}

	run.ID = id
	run.CreatedAt = now
	run.UpdatedAt = now
	return run, nil
}

func (r *SyncRunRepository) Update(ctx context.Context, run syncrun.Run) error {
	query, args, err := querybuilder.Update(syncRunsTable).
		Set("status", string(run.Status)).
		Set("member_total", run.MemberTotal).
		Set("member_synced", run.MemberSynced).
		Set("member_failed", run.MemberFailed).
		Set("matches_ingested", run.MatchesIngested).
		Set("matches_skipped", run.MatchesSkipped).
		Set("last_error", nullableString(run.LastError)).
		Set("started_at", nullableTime(run.StartedAt)).
		Set("finished_at", nullableTime(run.FinishedAt)).
		Set("updated_at", time.Now().UTC()).
		Where(querybuilder.Eq("run_id", run.RunID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update sync run query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sync run %s: %w", run.RunID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return syncrun.ErrNotFound
	}
	return nil
}

func (r *SyncRunRepository) GetByRunID(ctx context.Context, runID string) (syncrun.Run, error) {
	query, args, err := querybuilder.Select(syncRunColumns...).
		From(syncRunsTable).
		Where(querybuilder.Eq("run_id", runID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("build get sync run query: %w", err)
	}

	var row syncRunRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, syncrun.ErrNotFound
		}
		return syncrun.Run{}, fmt.Errorf("get sync run %s: %w", runID, err)
	}
	return row.toDomain(), nil
}
