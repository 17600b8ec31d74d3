package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/capao/capitascore/internal/domain/timeline"
	"github.com/capao/capitascore/internal/platform/querybuilder"
)

type timelineRow struct {
	ID         int64     `db:"id"`
	MatchID    string    `db:"match_id"`
	RawJSON    []byte    `db:"raw_json"`
	IngestedAt time.Time `db:"ingested_at"`
}

type TimelineRepository struct {
	db *sqlx.DB
}

func NewTimelineRepository(db *sqlx.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

func (r *TimelineRepository) GetByMatchID(ctx context.Context, matchID string) (timeline.Blob, error) {
	query, args, err := querybuilder.Select("id", "match_id", "raw_json", "ingested_at").
		From(timelinesTable).
		Where(querybuilder.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return timeline.Blob{}, fmt.Errorf("build get timeline query: %w", err)
	}

	var row timelineRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return timeline.Blob{}, timeline.ErrNotFound
		}
		return timeline.Blob{}, fmt.Errorf("get timeline %s: %w", matchID, err)
	}

	return timeline.Blob{
		ID:         row.ID,
		MatchID:    row.MatchID,
		RawJSON:    row.RawJSON,
		IngestedAt: row.IngestedAt,
	}, nil
}
