package memory

import "github.com/capao/capitascore/internal/domain/member"

// SeedMembers is a small demo roster for database-less runs.
func SeedMembers() []member.Member {
	return []member.Member{
		{ID: 1, PUUID: "demo-puuid-top-0000000000000000000000000000000000000001", Name: "Barão", Nick: "barao", Tag: "BR1"},
		{ID: 2, PUUID: "demo-puuid-jgl-0000000000000000000000000000000000000002", Name: "Feitiço", Nick: "feitico", Tag: "BR1"},
		{ID: 3, PUUID: "demo-puuid-mid-0000000000000000000000000000000000000003", Name: "Tormenta", Nick: "tormenta", Tag: "BR1"},
	}
}
