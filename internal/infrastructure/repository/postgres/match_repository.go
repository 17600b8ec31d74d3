package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/capao/capitascore/internal/domain/match"
	"github.com/capao/capitascore/internal/platform/querybuilder"
)

const (
	matchesTable      = "matches"
	participantsTable = "match_participants"
	timelinesTable    = "match_timelines"
)

var matchColumns = []string{
	"id", "match_id", "game_id", "game_creation", "game_duration",
	"game_end_timestamp", "game_mode", "game_type", "game_version", "map_id",
	"created_at",
}

var participantColumns = []string{
	"id", "match_pk", "member_id", "participant_number", "puuid",
	"riot_id_game_name", "riot_id_tagline", "team_id", "team_position",
	"champion_id", "champion_name", "win", "kills", "deaths", "assists",
	"gold_earned", "champ_level", "total_minions_killed",
	"neutral_minions_killed", "vision_score", "wards_placed", "wards_killed",
	"total_damage_dealt_to_champions", "total_damage_taken",
	"item0", "item1", "item2", "item3", "item4", "item5", "item6",
}

type matchRow struct {
	ID               int64     `db:"id"`
	MatchID          string    `db:"match_id"`
	GameID           int64     `db:"game_id"`
	GameCreation     int64     `db:"game_creation"`
	GameDuration     int64     `db:"game_duration"`
	GameEndTimestamp int64     `db:"game_end_timestamp"`
	GameMode         string    `db:"game_mode"`
	GameType         string    `db:"game_type"`
	GameVersion      string    `db:"game_version"`
	MapID            int32     `db:"map_id"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r matchRow) toDomain() match.Match {
	return match.Match{
		ID:               r.ID,
		MatchID:          r.MatchID,
		GameID:           r.GameID,
		GameCreation:     r.GameCreation,
		GameDuration:     r.GameDuration,
		GameEndTimestamp: r.GameEndTimestamp,
		GameMode:         r.GameMode,
		GameType:         r.GameType,
		GameVersion:      r.GameVersion,
		MapID:            r.MapID,
		CreatedAt:        r.CreatedAt,
	}
}

type participantRow struct {
	ID                          int64         `db:"id"`
	MatchPK                     int64         `db:"match_pk"`
	MemberID                    sql.NullInt64 `db:"member_id"`
	ParticipantNumber           int           `db:"participant_number"`
	PUUID                       string        `db:"puuid"`
	RiotIDGameName              string        `db:"riot_id_game_name"`
	RiotIDTagline               string        `db:"riot_id_tagline"`
	TeamID                      int           `db:"team_id"`
	TeamPosition                string        `db:"team_position"`
	ChampionID                  int           `db:"champion_id"`
	ChampionName                string        `db:"champion_name"`
	Win                         bool          `db:"win"`
	Kills                       int           `db:"kills"`
	Deaths                      int           `db:"deaths"`
	Assists                     int           `db:"assists"`
	GoldEarned                  int           `db:"gold_earned"`
	ChampLevel                  int           `db:"champ_level"`
	TotalMinionsKilled          int           `db:"total_minions_killed"`
	NeutralMinionsKilled        int           `db:"neutral_minions_killed"`
	VisionScore                 int           `db:"vision_score"`
	WardsPlaced                 int           `db:"wards_placed"`
	WardsKilled                 int           `db:"wards_killed"`
	TotalDamageDealtToChampions int           `db:"total_damage_dealt_to_champions"`
	TotalDamageTaken            int           `db:"total_damage_taken"`
	Item0                       int           `db:"item0"`
	Item1                       int           `db:"item1"`
	Item2                       int           `db:"item2"`
	Item3                       int           `db:"item3"`
	Item4                       int           `db:"item4"`
	Item5                       int           `db:"item5"`
	Item6                       int           `db:"item6"`
}

func (r participantRow) toDomain() match.Participant {
	return match.Participant{
		ID:                          r.ID,
		MatchPK:                     r.MatchPK,
		MemberID:                    optionalInt64(r.MemberID),
		ParticipantNumber:           r.ParticipantNumber,
		PUUID:                       r.PUUID,
		RiotIDGameName:              r.RiotIDGameName,
		RiotIDTagline:               r.RiotIDTagline,
		TeamID:                      r.TeamID,
		TeamPosition:                r.TeamPosition,
		ChampionID:                  r.ChampionID,
		ChampionName:                r.ChampionName,
		Win:                         r.Win,
		Kills:                       r.Kills,
		Deaths:                      r.Deaths,
		Assists:                     r.Assists,
		GoldEarned:                  r.GoldEarned,
		ChampLevel:                  r.ChampLevel,
		TotalMinionsKilled:          r.TotalMinionsKilled,
		NeutralMinionsKilled:        r.NeutralMinionsKilled,
		VisionScore:                 r.VisionScore,
		WardsPlaced:                 r.WardsPlaced,
		WardsKilled:                 r.WardsKilled,
		TotalDamageDealtToChampions: r.TotalDamageDealtToChampions,
		TotalDamageTaken:            r.TotalDamageTaken,
		Item0:                       r.Item0,
		Item1:                       r.Item1,
		Item2:                       r.Item2,
		Item3:                       r.Item3,
		Item4:                       r.Item4,
		Item5:                       r.Item5,
		Item6:                       r.Item6,
	}
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Exists(ctx context.Context, matchID string) (bool, error) {
	query, args, err := querybuilder.Select("1").
		From(matchesTable).
		Where(querybuilder.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build match exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check match %s: %w", matchID, err)
	}
	return true, nil
}

// InsertIfAbsent writes the match, its participants and the raw timeline in
// one transaction. The match insert carries ON CONFLICT DO NOTHING; when
// another writer already stored the match_id the whole write is skipped and
// false is returned.
func (r *MatchRepository) InsertIfAbsent(ctx context.Context, m match.Match, participants []match.Participant, rawTimeline []byte) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin match insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	matchInsert := struct {
		MatchID          string    `db:"match_id"`
		GameID           int64     `db:"game_id"`
		GameCreation     int64     `db:"game_creation"`
		GameDuration     int64     `db:"game_duration"`
		GameEndTimestamp int64     `db:"game_end_timestamp"`
		GameMode         string    `db:"game_mode"`
		GameType         string    `db:"game_type"`
		GameVersion      string    `db:"game_version"`
		MapID            int32     `db:"map_id"`
		CreatedAt        time.Time `db:"created_at"`
	}{
		MatchID:          m.MatchID,
		GameID:           m.GameID,
		GameCreation:     m.GameCreation,
		GameDuration:     m.GameDuration,
		GameEndTimestamp: m.GameEndTimestamp,
		GameMode:         m.GameMode,
		GameType:         m.GameType,
		GameVersion:      m.GameVersion,
		MapID:            m.MapID,
		CreatedAt:        now,
	}

	query, args, err := querybuilder.InsertModel(matchesTable, matchInsert, "ON CONFLICT (match_id) DO NOTHING RETURNING id")
	if err != nil {
		return false, fmt.Errorf("build match insert query: %w", err)
	}

	var matchPK int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&matchPK); err != nil {
		if isNotFound(err) {
			// Conflict: the match is already stored. Nothing to commit.
			return false, nil
		}
		return false, fmt.Errorf("insert match %s: %w", m.MatchID, err)
	}

	for _, p := range participants {
		insert := struct {
			MatchPK                     int64         `db:"match_pk"`
			MemberID                    sql.NullInt64 `db:"member_id"`
			ParticipantNumber           int           `db:"participant_number"`
			PUUID                       string        `db:"puuid"`
			RiotIDGameName              string        `db:"riot_id_game_name"`
			RiotIDTagline               string        `db:"riot_id_tagline"`
			TeamID                      int           `db:"team_id"`
			TeamPosition                string        `db:"team_position"`
			ChampionID                  int           `db:"champion_id"`
			ChampionName                string        `db:"champion_name"`
			Win                         bool          `db:"win"`
			Kills                       int           `db:"kills"`
			Deaths                      int           `db:"deaths"`
			Assists                     int           `db:"assists"`
			GoldEarned                  int           `db:"gold_earned"`
			ChampLevel                  int           `db:"champ_level"`
			TotalMinionsKilled          int           `db:"total_minions_killed"`
			NeutralMinionsKilled        int           `db:"neutral_minions_killed"`
			VisionScore                 int           `db:"vision_score"`
			WardsPlaced                 int           `db:"wards_placed"`
			WardsKilled                 int           `db:"wards_killed"`
			TotalDamageDealtToChampions int           `db:"total_damage_dealt_to_champions"`
			TotalDamageTaken            int           `db:"total_damage_taken"`
			Item0                       int           `db:"item0"`
			Item1                       int           `db:"item1"`
			Item2                       int           `db:"item2"`
			Item3                       int           `db:"item3"`
			Item4                       int           `db:"item4"`
			Item5                       int           `db:"item5"`
			Item6                       int           `db:"item6"`
		}{
			MatchPK:                     matchPK,
			MemberID:                    nullableInt64(p.MemberID),
			ParticipantNumber:           p.ParticipantNumber,
			PUUID:                       p.PUUID,
			RiotIDGameName:              p.RiotIDGameName,
			RiotIDTagline:               p.RiotIDTagline,
			TeamID:                      p.TeamID,
			TeamPosition:                p.TeamPosition,
			ChampionID:                  p.ChampionID,
			ChampionName:                p.ChampionName,
			Win:                         p.Win,
			Kills:                       p.Kills,
			Deaths:                      p.Deaths,
			Assists:                     p.Assists,
			GoldEarned:                  p.GoldEarned,
			ChampLevel:                  p.ChampLevel,
			TotalMinionsKilled:          p.TotalMinionsKilled,
			NeutralMinionsKilled:        p.NeutralMinionsKilled,
			VisionScore:                 p.VisionScore,
			WardsPlaced:                 p.WardsPlaced,
			WardsKilled:                 p.WardsKilled,
			TotalDamageDealtToChampions: p.TotalDamageDealtToChampions,
			TotalDamageTaken:            p.TotalDamageTaken,
			Item0:                       p.Item0,
			Item1:                       p.Item1,
			Item2:                       p.Item2,
			Item3:                       p.Item3,
			Item4:                       p.Item4,
			Item5:                       p.Item5,
			Item6:                       p.Item6,
		}

		query, args, err := querybuilder.InsertModel(participantsTable, insert, "")
		if err != nil {
			return false, fmt.Errorf("build participant insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert participant %d of match %s: %w", p.ParticipantNumber, m.MatchID, err)
		}
	}

	timelineInsert := struct {
		MatchID    string    `db:"match_id"`
		RawJSON    []byte    `db:"raw_json"`
		IngestedAt time.Time `db:"ingested_at"`
	}{
		MatchID:    m.MatchID,
		RawJSON:    rawTimeline,
		IngestedAt: now,
	}

	query, args, err = querybuilder.InsertModel(timelinesTable, timelineInsert, "ON CONFLICT (match_id) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("build timeline insert query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("insert timeline for match %s: %w", m.MatchID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit match %s: %w", m.MatchID, err)
	}
	return true, nil
}

func (r *MatchRepository) GetByMatchID(ctx context.Context, matchID string) (match.Match, []match.Participant, error) {
	query, args, err := querybuilder.Select(matchColumns...).
		From(matchesTable).
		Where(querybuilder.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, nil, fmt.Errorf("build get match query: %w", err)
	}

	var row matchRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, nil, match.ErrNotFound
		}
		return match.Match{}, nil, fmt.Errorf("get match %s: %w", matchID, err)
	}

	query, args, err = querybuilder.Select(participantColumns...).
		From(participantsTable).
		Where(querybuilder.Eq("match_pk", row.ID)).
		OrderBy("participant_number ASC").
		ToSQL()
	if err != nil {
		return match.Match{}, nil, fmt.Errorf("build get participants query: %w", err)
	}

	var participantRows []participantRow
	if err := r.db.SelectContext(ctx, &participantRows, query, args...); err != nil {
		return match.Match{}, nil, fmt.Errorf("get participants of match %s: %w", matchID, err)
	}

	participants := make([]match.Participant, 0, len(participantRows))
	for _, p := range participantRows {
		participants = append(participants, p.toDomain())
	}
	return row.toDomain(), participants, nil
}
