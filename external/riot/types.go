package riot

import "github.com/capao/capitascore/internal/usecase"

type matchEnvelope struct {
	Metadata matchMetadata `json:"metadata"`
	Info     matchInfo     `json:"info"`
}

type matchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type matchInfo struct {
	GameID           int64              `json:"gameId"`
	GameCreation     int64              `json:"gameCreation"`
	GameDuration     int64              `json:"gameDuration"`
	GameEndTimestamp int64              `json:"gameEndTimestamp"`
	GameMode         string             `json:"gameMode"`
	GameType         string             `json:"gameType"`
	GameVersion      string             `json:"gameVersion"`
	MapID            int32              `json:"mapId"`
	Participants     []matchParticipant `json:"participants"`
}

type matchParticipant struct {
	PUUID                       string `json:"puuid"`
	RiotIDGameName              string `json:"riotIdGameName"`
	RiotIDTagline               string `json:"riotIdTagline"`
	TeamID                      int    `json:"teamId"`
	TeamPosition                string `json:"teamPosition"`
	ChampionID                  int    `json:"championId"`
	ChampionName                string `json:"championName"`
	Win                         bool   `json:"win"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	GoldEarned                  int    `json:"goldEarned"`
	ChampLevel                  int    `json:"champLevel"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	VisionScore                 int    `json:"visionScore"`
	WardsPlaced                 int    `json:"wardsPlaced"`
	WardsKilled                 int    `json:"wardsKilled"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int    `json:"totalDamageTaken"`
	Item0                       int    `json:"item0"`
	Item1                       int    `json:"item1"`
	Item2                       int    `json:"item2"`
	Item3                       int    `json:"item3"`
	Item4                       int    `json:"item4"`
	Item5                       int    `json:"item5"`
	Item6                       int    `json:"item6"`
}

func mapMatchEnvelope(envelope matchEnvelope) usecase.ExternalMatch {
	out := usecase.ExternalMatch{
		Metadata: usecase.ExternalMatchMetadata{
			MatchID:      envelope.Metadata.MatchID,
			Participants: envelope.Metadata.Participants,
		},
		Info: usecase.ExternalMatchInfo{
			GameID:           envelope.Info.GameID,
			GameCreation:     envelope.Info.GameCreation,
			GameDuration:     envelope.Info.GameDuration,
			GameEndTimestamp: envelope.Info.GameEndTimestamp,
			GameMode:         envelope.Info.GameMode,
			GameType:         envelope.Info.GameType,
			GameVersion:      envelope.Info.GameVersion,
			MapID:            envelope.Info.MapID,
		},
	}

	out.Info.Participants = make([]usecase.ExternalParticipant, 0, len(envelope.Info.Participants))
	for _, p := range envelope.Info.Participants {
		out.Info.Participants = append(out.Info.Participants, usecase.ExternalParticipant{
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
		})
	}

	return out
}
