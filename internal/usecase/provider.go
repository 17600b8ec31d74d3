package usecase

import "context"

// MatchProvider is the upstream match-history source. Implementations must
// preserve upstream ordering in ListMatchIDs and return the timeline body
// verbatim from FetchRawTimeline.
type MatchProvider interface {
	ListMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error)
	FetchMatch(ctx context.Context, matchID string) (ExternalMatch, error)
	FetchRawTimeline(ctx context.Context, matchID string) ([]byte, error)
}

type ExternalMatch struct {
	Metadata ExternalMatchMetadata
	Info     ExternalMatchInfo
}

type ExternalMatchMetadata struct {
	MatchID      string
	Participants []string
}

type ExternalMatchInfo struct {
	GameID           int64
	GameCreation     int64
	GameDuration     int64
	GameEndTimestamp int64
	GameMode         string
	GameType         string
	GameVersion      string
	MapID            int32
	Participants     []ExternalParticipant
}

type ExternalParticipant struct {
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
