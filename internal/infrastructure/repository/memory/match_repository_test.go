package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/capao/capitascore/internal/domain/match"
	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/domain/timeline"
)

func TestMatchRepositoryInsertIfAbsent(t *testing.T) {
	repo := NewMatchRepository()
	ctx := context.Background()

	m := match.Match{MatchID: "BR1_1", GameDuration: 1800}
	participants := []match.Participant{
		{ParticipantNumber: 1, PUUID: "puuid-a", TeamID: 100},
		{ParticipantNumber: 2, PUUID: "puuid-b", TeamID: 200},
	}

	inserted, err := repo.InsertIfAbsent(ctx, m, participants, []byte(`{"info":{}}`))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Fatal("first insert reported as duplicate")
	}

	// Same match id again: no error, nothing overwritten.
	inserted, err = repo.InsertIfAbsent(ctx, m, []match.Participant{{ParticipantNumber: 1, PUUID: "puuid-z"}}, []byte(`{}`))
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if inserted {
		t.Fatal("duplicate insert reported as new")
	}

	stored, storedParticipants, err := repo.GetByMatchID(ctx, "BR1_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ID == 0 {
		t.Fatal("stored match has no primary key")
	}
	if len(storedParticipants) != 2 || storedParticipants[0].PUUID != "puuid-a" {
		t.Fatalf("participants = %+v", storedParticipants)
	}
	for _, p := range storedParticipants {
		if p.MatchPK != stored.ID {
			t.Fatalf("participant %d not linked to match pk", p.ParticipantNumber)
		}
	}
}

func TestMatchRepositoryExists(t *testing.T) {
	repo := NewMatchRepository()
	ctx := context.Background()

	if exists, _ := repo.Exists(ctx, "BR1_1"); exists {
		t.Fatal("empty repository reports match")
	}

	if _, err := repo.InsertIfAbsent(ctx, match.Match{MatchID: "BR1_1"}, nil, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if exists, _ := repo.Exists(ctx, "BR1_1"); !exists {
		t.Fatal("stored match not found")
	}
}

func TestMatchRepositoryGetMissing(t *testing.T) {
	repo := NewMatchRepository()

	_, _, err := repo.GetByMatchID(context.Background(), "BR1_missing")
	if !errors.Is(err, match.ErrNotFound) {
		t.Fatalf("err = %v, want match.ErrNotFound", err)
	}
}

func TestTimelineRepositoryReadsStoredBlob(t *testing.T) {
	matches := NewMatchRepository()
	timelines := NewTimelineRepository(matches)
	ctx := context.Background()

	raw := []byte(`{"metadata":{"participants":["puuid-a"]}}`)
	if _, err := matches.InsertIfAbsent(ctx, match.Match{MatchID: "BR1_1"}, nil, raw); err != nil {
		t.Fatalf("insert: %v", err)
	}

	blob, err := timelines.GetByMatchID(ctx, "BR1_1")
	if err != nil {
		t.Fatalf("get timeline: %v", err)
	}
	if string(blob.RawJSON) != string(raw) {
		t.Fatalf("raw json = %s", blob.RawJSON)
	}

	if _, err := timelines.GetByMatchID(ctx, "BR1_missing"); !errors.Is(err, timeline.ErrNotFound) {
		t.Fatalf("err = %v, want timeline.ErrNotFound", err)
	}
}

func TestMemberRepositoryCreateAndList(t *testing.T) {
	repo := NewMemberRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, member.Member{PUUID: "puuid-a", Name: "Zed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created member has no id")
	}

	if _, err := repo.Create(ctx, member.Member{PUUID: "puuid-a", Name: "Other"}); !errors.Is(err, member.ErrDuplicate) {
		t.Fatalf("err = %v, want member.ErrDuplicate", err)
	}

	if _, err := repo.Create(ctx, member.Member{PUUID: "puuid-b", Name: "Ana"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	members, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 2 || members[0].Name != "Ana" || members[1].Name != "Zed" {
		t.Fatalf("list not ordered by name: %+v", members)
	}
}

func TestMemberRepositoryListActiveFiltersInactive(t *testing.T) {
	inactive := false
	repo := NewMemberRepository(
		member.Member{ID: 1, PUUID: "puuid-a", Name: "A"},
		member.Member{ID: 2, PUUID: "puuid-b", Name: "B", Active: &inactive},
	)

	members, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(members) != 1 || members[0].PUUID != "puuid-a" {
		t.Fatalf("active members = %+v", members)
	}
}
