package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/capao/capitascore/internal/domain/metric"
	"github.com/capao/capitascore/internal/platform/querybuilder"
)

const metricsTable = "player_match_metrics"

// metricUpsertSuffix recomputes every stored value on conflict so a
// re-scored match replaces its old rows instead of failing.
const metricUpsertSuffix = `ON CONFLICT (match_id, participant_id) DO UPDATE SET
puuid = EXCLUDED.puuid,
team_id = EXCLUDED.team_id,
champion_name = EXCLUDED.champion_name,
kda = EXCLUDED.kda,
dmg_per_min = EXCLUDED.dmg_per_min,
gold_per_min = EXCLUDED.gold_per_min,
cs_per_min = EXCLUDED.cs_per_min,
kp = EXCLUDED.kp,
dmg_taken_per_min = EXCLUDED.dmg_taken_per_min,
deaths_per_min = EXCLUDED.deaths_per_min,
xp_per_min = EXCLUDED.xp_per_min,
vision_per_min = EXCLUDED.vision_per_min,
cc_per_min = EXCLUDED.cc_per_min,
kda_score = EXCLUDED.kda_score,
dmg_per_min_score = EXCLUDED.dmg_per_min_score,
gold_per_min_score = EXCLUDED.gold_per_min_score,
cs_per_min_score = EXCLUDED.cs_per_min_score,
kp_score = EXCLUDED.kp_score,
dmg_taken_per_min_score = EXCLUDED.dmg_taken_per_min_score,
deaths_per_min_score = EXCLUDED.deaths_per_min_score,
xp_per_min_score = EXCLUDED.xp_per_min_score,
vision_per_min_score = EXCLUDED.vision_per_min_score,
cc_per_min_score = EXCLUDED.cc_per_min_score,
final_score = EXCLUDED.final_score`

const listPendingQuery = `SELECT m.id AS match_pk, m.match_id, m.game_duration, t.raw_json
FROM matches m
JOIN match_timelines t ON t.match_id = m.match_id
WHERE NOT EXISTS (
	SELECT 1 FROM player_match_metrics pm WHERE pm.match_pk = m.id
)
ORDER BY m.id ASC`

const pendingParticipantsQuery = `SELECT id, match_pk, participant_number, puuid, team_id, champion_name,
kills, deaths, assists, gold_earned, total_minions_killed,
neutral_minions_killed, total_damage_dealt_to_champions, total_damage_taken,
wards_placed, wards_killed, vision_score
FROM match_participants
WHERE match_pk IN (?)
ORDER BY match_pk ASC, participant_number ASC`

const rankingQuery = `SELECT p.puuid,
COALESCE(NULLIF(mem.name, ''), NULLIF(mem.nick, ''), 'Unknown') AS name,
COALESCE(mem.tag, '') AS tag,
COUNT(*) AS games,
AVG(pm.final_score) AS avg_score
FROM player_match_metrics pm
JOIN match_participants p ON p.id = pm.participant_pk
LEFT JOIN members mem ON mem.id = p.member_id
WHERE p.member_id IS NOT NULL
GROUP BY p.puuid, mem.name, mem.nick, mem.tag
HAVING COUNT(*) >= $1
ORDER BY avg_score DESC, games DESC, name ASC`

type pendingMatchRow struct {
	MatchPK      int64  `db:"match_pk"`
	MatchID      string `db:"match_id"`
	GameDuration int64  `db:"game_duration"`
	RawJSON      []byte `db:"raw_json"`
}

type pendingParticipantRow struct {
	ID                          int64  `db:"id"`
	MatchPK                     int64  `db:"match_pk"`
	ParticipantNumber           int    `db:"participant_number"`
	PUUID                       string `db:"puuid"`
	TeamID                      int    `db:"team_id"`
	ChampionName                string `db:"champion_name"`
	Kills                       int    `db:"kills"`
	Deaths                      int    `db:"deaths"`
	Assists                     int    `db:"assists"`
	GoldEarned                  int    `db:"gold_earned"`
	TotalMinionsKilled          int    `db:"total_minions_killed"`
	NeutralMinionsKilled        int    `db:"neutral_minions_killed"`
	TotalDamageDealtToChampions int    `db:"total_damage_dealt_to_champions"`
	TotalDamageTaken            int    `db:"total_damage_taken"`
	WardsPlaced                 int    `db:"wards_placed"`
	WardsKilled                 int    `db:"wards_killed"`
	VisionScore                 int    `db:"vision_score"`
}

type rankingRow struct {
	PUUID    string  `db:"puuid"`
	Name     string  `db:"name"`
	Tag      string  `db:"tag"`
	Games    int     `db:"games"`
	AvgScore float64 `db:"avg_score"`
}

type MetricRepository struct {
	db *sqlx.DB
}

func NewMetricRepository(db *sqlx.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

func (r *MetricRepository) ListPending(ctx context.Context, limit int) ([]metric.PendingMatch, error) {
	query := listPendingQuery
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	var matchRows []pendingMatchRow
	if err := r.db.SelectContext(ctx, &matchRows, query); err != nil {
		return nil, fmt.Errorf("list pending matches: %w", err)
	}
	if len(matchRows) == 0 {
		return nil, nil
	}

	matchPKs := make([]int64, 0, len(matchRows))
	for _, row := range matchRows {
		matchPKs = append(matchPKs, row.MatchPK)
	}

	inQuery, inArgs, err := sqlx.In(pendingParticipantsQuery, matchPKs)
	if err != nil {
		return nil, fmt.Errorf("build pending participants query: %w", err)
	}

	var participantRows []pendingParticipantRow
	if err := r.db.SelectContext(ctx, &participantRows, r.db.Rebind(inQuery), inArgs...); err != nil {
		return nil, fmt.Errorf("list pending participants: %w", err)
	}

	byMatch := make(map[int64][]metric.PendingParticipant, len(matchRows))
	for _, row := range participantRows {
		byMatch[row.MatchPK] = append(byMatch[row.MatchPK], metric.PendingParticipant{
			ParticipantPK:               row.ID,
			ParticipantNumber:           row.ParticipantNumber,
			PUUID:                       row.PUUID,
			TeamID:                      row.TeamID,
			ChampionName:                row.ChampionName,
			Kills:                       row.Kills,
			Deaths:                      row.Deaths,
			Assists:                     row.Assists,
			GoldEarned:                  row.GoldEarned,
			TotalMinionsKilled:          row.TotalMinionsKilled,
			NeutralMinionsKilled:        row.NeutralMinionsKilled,
			TotalDamageDealtToChampions: row.TotalDamageDealtToChampions,
			TotalDamageTaken:            row.TotalDamageTaken,
			WardsPlaced:                 row.WardsPlaced,
			WardsKilled:                 row.WardsKilled,
			VisionScore:                 row.VisionScore,
		})
	}

	out := make([]metric.PendingMatch, 0, len(matchRows))
	for _, row := range matchRows {
		out = append(out, metric.PendingMatch{
			MatchPK:      row.MatchPK,
			MatchID:      row.MatchID,
			GameDuration: row.GameDuration,
			RawTimeline:  row.RawJSON,
			Participants: byMatch[row.MatchPK],
		})
	}
	return out, nil
}

func (r *MetricRepository) UpsertMany(ctx context.Context, rows []metric.PlayerMatchMetric) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin metric upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, row := range rows {
		insert := struct {
			MatchPK             int64     `db:"match_pk"`
			ParticipantPK       int64     `db:"participant_pk"`
			MatchID             string    `db:"match_id"`
			ParticipantID       int       `db:"participant_id"`
			PUUID               string    `db:"puuid"`
			TeamID              int       `db:"team_id"`
			ChampionName        string    `db:"champion_name"`
			KDA                 float64   `db:"kda"`
			DmgPerMin           float64   `db:"dmg_per_min"`
			GoldPerMin          float64   `db:"gold_per_min"`
			CSPerMin            float64   `db:"cs_per_min"`
			KP                  float64   `db:"kp"`
			DmgTakenPerMin      float64   `db:"dmg_taken_per_min"`
			DeathsPerMin        float64   `db:"deaths_per_min"`
			XPPerMin            float64   `db:"xp_per_min"`
			VisionPerMin        float64   `db:"vision_per_min"`
			CCPerMin            float64   `db:"cc_per_min"`
			KDAScore            float64   `db:"kda_score"`
			DmgPerMinScore      float64   `db:"dmg_per_min_score"`
			GoldPerMinScore     float64   `db:"gold_per_min_score"`
			CSPerMinScore       float64   `db:"cs_per_min_score"`
			KPScore             float64   `db:"kp_score"`
			DmgTakenPerMinScore float64   `db:"dmg_taken_per_min_score"`
			DeathsPerMinScore   float64   `db:"deaths_per_min_score"`
			XPPerMinScore       float64   `db:"xp_per_min_score"`
			VisionPerMinScore   float64   `db:"vision_per_min_score"`
			CCPerMinScore       float64   `db:"cc_per_min_score"`
			FinalScore          float64   `db:"final_score"`
			CreatedAt           time.Time `db:"created_at"`
		}{
			MatchPK:             row.MatchPK,
			ParticipantPK:       row.ParticipantPK,
			MatchID:             row.MatchID,
			ParticipantID:       row.ParticipantID,
			PUUID:               row.PUUID,
			TeamID:              row.TeamID,
			ChampionName:        row.ChampionName,
			KDA:                 row.KDA,
			DmgPerMin:           row.DmgPerMin,
			GoldPerMin:          row.GoldPerMin,
			CSPerMin:            row.CSPerMin,
			KP:                  row.KP,
			DmgTakenPerMin:      row.DmgTakenPerMin,
			DeathsPerMin:        row.DeathsPerMin,
			XPPerMin:            row.XPPerMin,
			VisionPerMin:        row.VisionPerMin,
			CCPerMin:            row.CCPerMin,
			KDAScore:            row.KDAScore,
			DmgPerMinScore:      row.DmgPerMinScore,
			GoldPerMinScore:     row.GoldPerMinScore,
			CSPerMinScore:       row.CSPerMinScore,
			KPScore:             row.KPScore,
			DmgTakenPerMinScore: row.DmgTakenPerMinScore,
			DeathsPerMinScore:   row.DeathsPerMinScore,
			XPPerMinScore:       row.XPPerMinScore,
			VisionPerMinScore:   row.VisionPerMinScore,
			CCPerMinScore:       row.CCPerMinScore,
			FinalScore:          row.FinalScore,
			CreatedAt:           now,
		}

		query, args, err := querybuilder.InsertModel(metricsTable, insert, metricUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build metric upsert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert metric match=%s participant=%d: %w", row.MatchID, row.ParticipantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit metric upsert: %w", err)
	}
	return nil
}

func (r *MetricRepository) Ranking(ctx context.Context, minGames int) ([]metric.RankingRow, error) {
	if minGames < 1 {
		minGames = 1
	}

	var rows []rankingRow
	if err := r.db.SelectContext(ctx, &rows, rankingQuery, minGames); err != nil {
		return nil, fmt.Errorf("load ranking: %w", err)
	}

	out := make([]metric.RankingRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, metric.RankingRow{
			PUUID:        row.PUUID,
			Name:         row.Name,
			Tag:          row.Tag,
			Games:        row.Games,
			AverageScore: row.AvgScore,
		})
	}
	return out, nil
}
