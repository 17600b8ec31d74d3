package match

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("match not found")

// Match is one completed game. GameCreation and GameEndTimestamp are unix
// milliseconds, GameDuration is seconds, all as reported upstream.
type Match struct {
	ID               int64
	MatchID          string
	GameID           int64
	GameCreation     int64
	GameDuration     int64
	GameEndTimestamp int64
	GameMode         string
	GameType         string
	GameVersion      string
	MapID            int32
	CreatedAt        time.Time
}

// Participant is one of up to ten players in a match, in upstream order.
// MemberID is set only when the puuid belongs to a tracked member.
type Participant struct {
	ID                          int64
	MatchPK                     int64
	MemberID                    *int64
	ParticipantNumber           int
	PUUID                       string
	RiotIDGameName              string
	RiotIDTagline               string
	TeamID                      int
	TeamPosition                string
	ChampionID                  int
	ChampionName                string
	Win                         bool
	Kills                       int
	Deaths                      int
	Assists                     int
	GoldEarned                  int
	ChampLevel                  int
	TotalMinionsKilled          int
	NeutralMinionsKilled        int
	VisionScore                 int
	WardsPlaced                 int
	WardsKilled                 int
	TotalDamageDealtToChampions int
	TotalDamageTaken            int
	Item0                       int
	Item1                       int
	Item2                       int
	Item3                       int
	Item4                       int
	Item5                       int
	Item6                       int
}

// Repository persists matches. InsertIfAbsent writes the match together with
// its participants and raw timeline in one transaction and reports whether
// the row was inserted; a match_id conflict leaves the stored data untouched
// and returns false.
type Repository interface {
	Exists(ctx context.Context, matchID string) (bool, error)
	InsertIfAbsent(ctx context.Context, m Match, participants []Participant, rawTimeline []byte) (bool, error)
	GetByMatchID(ctx context.Context, matchID string) (Match, []Participant, error)
}
