package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/capao/capitascore/internal/domain/member"
)

// MemberRepository is an in-memory roster used by tests and database-less
// runs.
type MemberRepository struct {
	mu      sync.RWMutex
	byPUUID map[string]member.Member
	nextID  int64
}

func NewMemberRepository(seed ...member.Member) *MemberRepository {
	repo := &MemberRepository{
		byPUUID: make(map[string]member.Member, len(seed)),
		nextID:  1,
	}
	for _, m := range seed {
		if strings.TrimSpace(m.PUUID) == "" {
			continue
		}
		if m.ID == 0 {
			m.ID = repo.nextID
		}
		if m.ID >= repo.nextID {
			repo.nextID = m.ID + 1
		}
		repo.byPUUID[m.PUUID] = m
	}
	return repo
}

func (r *MemberRepository) List(_ context.Context) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(member.Member) bool { return true }), nil
}

func (r *MemberRepository) ListActive(_ context.Context) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(member.Member.IsActive), nil
}

func (r *MemberRepository) GetByPUUID(_ context.Context, puuid string) (member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byPUUID[puuid]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	return m, nil
}

func (r *MemberRepository) Create(_ context.Context, m member.Member) (member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPUUID[m.PUUID]; exists {
		return member.Member{}, member.ErrDuplicate
	}

	now := time.Now().UTC()
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = now
	m.UpdatedAt = now
	r.byPUUID[m.PUUID] = m
	return m, nil
}

func (r *MemberRepository) sorted(keep func(member.Member) bool) []member.Member {
	out := make([]member.Member, 0, len(r.byPUUID))
	for _, m := range r.byPUUID {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
