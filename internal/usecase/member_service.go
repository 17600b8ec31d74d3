package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/platform/logging"
)

// CreateMemberInput is the roster admin payload.
type CreateMemberInput struct {
	PUUID  string `json:"puuid" validate:"required,min=10,max=128"`
	Name   string `json:"name" validate:"required,max=100"`
	Nick   string `json:"nick" validate:"max=100"`
	Tag    string `json:"tag" validate:"max=32"`
	Active *bool  `json:"active"`
}

// MemberService manages the tracked roster.
type MemberService struct {
	members member.Repository
	logger  *logging.Logger
}

func NewMemberService(members member.Repository, logger *logging.Logger) *MemberService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MemberService{members: members, logger: logger}
}

func (s *MemberService) List(ctx context.Context) ([]member.Member, error) {
	ctx, span := startSpan(ctx, "MemberService.List")
	defer span.End()

	members, err := s.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *MemberService) Create(ctx context.Context, input CreateMemberInput) (member.Member, error) {
	ctx, span := startSpan(ctx, "MemberService.Create")
	defer span.End()

	puuid := strings.TrimSpace(input.PUUID)
	if puuid == "" {
		return member.Member{}, fmt.Errorf("%w: puuid is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return member.Member{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	created, err := s.members.Create(ctx, member.Member{
		PUUID:  puuid,
		Name:   name,
		Nick:   strings.TrimSpace(input.Nick),
		Tag:    strings.TrimSpace(input.Tag),
		Active: input.Active,
	})
	if err != nil {
		if errors.Is(err, member.ErrDuplicate) {
			return member.Member{}, fmt.Errorf("%w: member %s already exists", ErrInvalidInput, puuid)
		}
		return member.Member{}, fmt.Errorf("create member: %w", err)
	}

	s.logger.InfoContext(ctx, "member created", "puuid", created.PUUID, "name", created.Name)
	return created, nil
}
