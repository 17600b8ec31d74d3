package usecase

import (
	"testing"

	"github.com/capao/capitascore/internal/domain/member"
)

func TestMapExternalMatchPreservesOrderAndLinksMembers(t *testing.T) {
	ext := ExternalMatch{
		Metadata: ExternalMatchMetadata{
			MatchID:      "BR1_100",
			Participants: []string{"puuid-a", "puuid-b", "puuid-c"},
		},
		Info: ExternalMatchInfo{
			GameID:       42,
			GameDuration: 1800,
			GameMode:     "CLASSIC",
			Participants: []ExternalParticipant{
				{PUUID: "puuid-a", TeamID: 100, ChampionName: "Ahri", Kills: 5},
				{PUUID: "puuid-b", TeamID: 100, ChampionName: "Garen", Kills: 2},
				{PUUID: "puuid-c", TeamID: 200, ChampionName: "Lux", Kills: 9},
			},
		},
	}
	roster := map[string]member.Member{
		"puuid-b": {ID: 7, PUUID: "puuid-b", Name: "Tracked"},
	}

	m, participants := mapExternalMatch(ext, roster)

	if m.MatchID != "BR1_100" {
		t.Fatalf("match id = %q, want BR1_100", m.MatchID)
	}
	if m.GameID != 42 || m.GameDuration != 1800 || m.GameMode != "CLASSIC" {
		t.Fatalf("match fields not copied: %+v", m)
	}
	if len(participants) != 3 {
		t.Fatalf("participants = %d, want 3", len(participants))
	}

	for i, p := range participants {
		if p.ParticipantNumber != i+1 {
			t.Fatalf("participant %d has number %d", i, p.ParticipantNumber)
		}
	}
	if participants[0].PUUID != "puuid-a" || participants[2].PUUID != "puuid-c" {
		t.Fatalf("upstream order not preserved: %+v", participants)
	}

	if participants[0].MemberID != nil {
		t.Fatalf("untracked participant got member id %v", *participants[0].MemberID)
	}
	if participants[1].MemberID == nil || *participants[1].MemberID != 7 {
		t.Fatalf("tracked participant not linked: %+v", participants[1].MemberID)
	}
}

func TestMapExternalMatchCopiesStatFields(t *testing.T) {
	ext := ExternalMatch{
		Info: ExternalMatchInfo{
			Participants: []ExternalParticipant{{
				PUUID:                       "puuid-x",
				Kills:                       3,
				Deaths:                      4,
				Assists:                     11,
				GoldEarned:                  12000,
				TotalMinionsKilled:          180,
				NeutralMinionsKilled:        24,
				TotalDamageDealtToChampions: 21000,
				TotalDamageTaken:            18000,
				WardsPlaced:                 9,
				WardsKilled:                 3,
				VisionScore:                 31,
				Item0:                       3089,
				Item6:                       3364,
			}},
		},
	}

	_, participants := mapExternalMatch(ext, nil)
	p := participants[0]

	if p.Kills != 3 || p.Deaths != 4 || p.Assists != 11 {
		t.Fatalf("kda fields not copied: %+v", p)
	}
	if p.GoldEarned != 12000 || p.TotalMinionsKilled != 180 || p.NeutralMinionsKilled != 24 {
		t.Fatalf("economy fields not copied: %+v", p)
	}
	if p.TotalDamageDealtToChampions != 21000 || p.TotalDamageTaken != 18000 {
		t.Fatalf("damage fields not copied: %+v", p)
	}
	if p.WardsPlaced != 9 || p.WardsKilled != 3 || p.VisionScore != 31 {
		t.Fatalf("vision fields not copied: %+v", p)
	}
	if p.Item0 != 3089 || p.Item6 != 3364 {
		t.Fatalf("items not copied: %+v", p)
	}
}
