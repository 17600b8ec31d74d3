package usecase

import (
	"github.com/capao/capitascore/internal/domain/match"
	"github.com/capao/capitascore/internal/domain/member"
)

// mapExternalMatch converts an upstream match document into storage rows.
// Participants keep their upstream order; participant numbers are 1-based.
// MemberID is attached when the participant puuid belongs to the roster.
func mapExternalMatch(ext ExternalMatch, membersByPUUID map[string]member.Member) (match.Match, []match.Participant) {
	m := match.Match{
		MatchID:          ext.Metadata.MatchID,
		GameID:           ext.Info.GameID,
		GameCreation:     ext.Info.GameCreation,
		GameDuration:     ext.Info.GameDuration,
		GameEndTimestamp: ext.Info.GameEndTimestamp,
		GameMode:         ext.Info.GameMode,
		GameType:         ext.Info.GameType,
		GameVersion:      ext.Info.GameVersion,
		MapID:            ext.Info.MapID,
	}

	participants := make([]match.Participant, 0, len(ext.Info.Participants))
	for i, p := range ext.Info.Participants {
		row := match.Participant{
			ParticipantNumber:           i + 1,
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
		if tracked, ok := membersByPUUID[p.PUUID]; ok {
			memberID := tracked.ID
			row.MemberID = &memberID
		}
		participants = append(participants, row)
	}

	return m, participants
}
