package member

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("member not found")
	ErrDuplicate = errors.New("member already exists")
)

// Member is a tracked roster account. Active is nullable upstream; a nil
// value is treated as active.
type Member struct {
	ID        int64
	PUUID     string
	Name      string
	Nick      string
	Tag       string
	Active    *bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Member) IsActive() bool {
	return m.Active == nil || *m.Active
}

// DisplayName is the label shown in rankings. Falls back to the nick, then
// to "Unknown".
func (m Member) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	if m.Nick != "" {
		return m.Nick
	}
	return "Unknown"
}

type Repository interface {
	List(ctx context.Context) ([]Member, error)
	ListActive(ctx context.Context) ([]Member, error)
	GetByPUUID(ctx context.Context, puuid string) (Member, error)
	Create(ctx context.Context, m Member) (Member, error)
}
