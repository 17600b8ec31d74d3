package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/infrastructure/repository/memory"
	"github.com/capao/capitascore/internal/platform/logging"
)

func TestCreateMemberTrimsAndStores(t *testing.T) {
	repo := memory.NewMemberRepository()
	service := NewMemberService(repo, logging.NewNop())

	created, err := service.Create(context.Background(), CreateMemberInput{
		PUUID: "  some-long-puuid-value  ",
		Name:  "  Player  ",
		Nick:  " nick ",
		Tag:   " BR1 ",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created.PUUID != "some-long-puuid-value" || created.Name != "Player" {
		t.Fatalf("fields not trimmed: %+v", created)
	}
	if created.Nick != "nick" || created.Tag != "BR1" {
		t.Fatalf("optional fields not trimmed: %+v", created)
	}
}

func TestCreateMemberValidatesRequiredFields(t *testing.T) {
	service := NewMemberService(memory.NewMemberRepository(), logging.NewNop())

	cases := []struct {
		name  string
		input CreateMemberInput
	}{
		{name: "blank puuid", input: CreateMemberInput{PUUID: "   ", Name: "Player"}},
		{name: "blank name", input: CreateMemberInput{PUUID: "some-long-puuid-value", Name: "  "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Create(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateMemberDuplicateIsInvalidInput(t *testing.T) {
	repo := memory.NewMemberRepository(member.Member{ID: 1, PUUID: "some-long-puuid-value", Name: "Existing"})
	service := NewMemberService(repo, logging.NewNop())

	_, err := service.Create(context.Background(), CreateMemberInput{
		PUUID: "some-long-puuid-value",
		Name:  "Another",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestListMembersPassesThrough(t *testing.T) {
	repo := memory.NewMemberRepository(
		member.Member{ID: 1, PUUID: "puuid-a", Name: "A"},
		member.Member{ID: 2, PUUID: "puuid-b", Name: "B"},
	)
	service := NewMemberService(repo, logging.NewNop())

	members, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %+v", members)
	}
}
