package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/platform/querybuilder"
)

const membersTable = "members"

var memberColumns = []string{
	"id", "puuid", "name", "nick", "tag", "active", "created_at", "updated_at",
}

type memberRow struct {
	ID        int64          `db:"id"`
	PUUID     string         `db:"puuid"`
	Name      string         `db:"name"`
	Nick      sql.NullString `db:"nick"`
	Tag       sql.NullString `db:"tag"`
	Active    sql.NullBool   `db:"active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r memberRow) toDomain() member.Member {
	return member.Member{
		ID:        r.ID,
		PUUID:     r.PUUID,
		Name:      r.Name,
		Nick:      optionalString(r.Nick),
		Tag:       optionalString(r.Tag),
		Active:    optionalBool(r.Active),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) List(ctx context.Context) ([]member.Member, error) {
	query, args, err := querybuilder.Select(memberColumns...).
		From(membersTable).
		OrderBy("name ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list members query: %w", err)
	}

	var rows []memberRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MemberRepository) ListActive(ctx context.Context) ([]member.Member, error) {
	// NULL active means the member was created before the flag existed and
	// is treated as active.
	query, args, err := querybuilder.Select(memberColumns...).
		From(membersTable).
		Where(querybuilder.Expr("(active IS NULL OR active = TRUE)")).
		OrderBy("name ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active members query: %w", err)
	}

	var rows []memberRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MemberRepository) GetByPUUID(ctx context.Context, puuid string) (member.Member, error) {
	query, args, err := querybuilder.Select(memberColumns...).
		From(membersTable).
		Where(querybuilder.Eq("puuid", puuid)).
		Limit(1).
		ToSQL()
	if err != nil {
		return member.Member{}, fmt.Errorf("build get member query: %w", err)
	}

	var row memberRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return member.Member{}, member.ErrNotFound
		}
		return member.Member{}, fmt.Errorf("get member %s: %w", puuid, err)
	}
	return row.toDomain(), nil
}

func (r *MemberRepository) Create(ctx context.Context, m member.Member) (member.Member, error) {
	now := time.Now().UTC()

	insert := struct {
		PUUID     string         `db:"puuid"`
		Name      string         `db:"name"`
		Nick      sql.NullString `db:"nick"`
		Tag       sql.NullString `db:"tag"`
		Active    sql.NullBool   `db:"active"`
		CreatedAt time.Time      `db:"created_at"`
		UpdatedAt time.Time      `db:"updated_at"`
	}{
		PUUID:     m.PUUID,
		Name:      m.Name,
		Nick:      nullableString(m.Nick),
		Tag:       nullableString(m.Tag),
		Active:    nullableBool(m.Active),
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, args, err := querybuilder.InsertModel(membersTable, insert, "RETURNING id")
	if err != nil {
		return member.Member{}, fmt.Errorf("build create member query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return member.Member{}, member.ErrDuplicate
		}
		return member.Member{}, fmt.Errorf("create member %s: %w", m.PUUID, err)
	}

	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return m, nil
}
