package metric

import (
	"context"
	"time"
)

// PlayerMatchMetric holds one participant's raw per-minute metrics for a
// match plus the per-match normalized scores and the weighted final score.
type PlayerMatchMetric struct {
	ID            int64
	MatchPK       int64
	ParticipantPK int64
	MatchID       string
	ParticipantID int
	PUUID         string
	TeamID        int
	ChampionName  string

	KDA            float64
	DmgPerMin      float64
	GoldPerMin     float64
	CSPerMin       float64
	KP             float64
	DmgTakenPerMin float64
	DeathsPerMin   float64
	XPPerMin       float64
	VisionPerMin   float64
	CCPerMin       float64

	KDAScore            float64
	DmgPerMinScore      float64
	GoldPerMinScore     float64
	CSPerMinScore       float64
	KPScore             float64
	DmgTakenPerMinScore float64
	DeathsPerMinScore   float64
	XPPerMinScore       float64
	VisionPerMinScore   float64
	CCPerMinScore       float64

	FinalScore float64
	CreatedAt  time.Time
}

// PendingParticipant is the stored stat surface the metrics job needs for
// one participant of an unscored match.
type PendingParticipant struct {
	ParticipantPK               int64
	ParticipantNumber           int
	PUUID                       string
	TeamID                      int
	ChampionName                string
	Kills                       int
	Deaths                      int
	Assists                     int
	GoldEarned                  int
	TotalMinionsKilled          int
	NeutralMinionsKilled        int
	TotalDamageDealtToChampions int
	TotalDamageTaken            int
	WardsPlaced                 int
	WardsKilled                 int
	VisionScore                 int
}

// PendingMatch is a match that has a stored timeline but no metric rows yet.
type PendingMatch struct {
	MatchPK      int64
	MatchID      string
	GameDuration int64
	RawTimeline  []byte
	Participants []PendingParticipant
}

// RankingRow aggregates a tracked player's scored matches.
type RankingRow struct {
	PUUID        string
	Name         string
	Tag          string
	Games        int
	AverageScore float64
}

type Repository interface {
	ListPending(ctx context.Context, limit int) ([]PendingMatch, error)
	UpsertMany(ctx context.Context, rows []PlayerMatchMetric) error
	Ranking(ctx context.Context, minGames int) ([]RankingRow, error)
}
