package usecase

import (
	"errors"

	"github.com/capao/capitascore/internal/domain/match"
	"github.com/capao/capitascore/internal/domain/member"
	"github.com/capao/capitascore/internal/domain/syncrun"
	"github.com/capao/capitascore/internal/domain/timeline"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func isNotFound(err error) bool {
	return errors.Is(err, member.ErrNotFound) ||
		errors.Is(err, match.ErrNotFound) ||
		errors.Is(err, timeline.ErrNotFound) ||
		errors.Is(err, syncrun.ErrNotFound)
}
