package memory

import (
	"context"
	"sync"
	"time"

	"github.com/capao/capitascore/internal/domain/match"
	"github.com/capao/capitascore/internal/domain/timeline"
)

// MatchRepository stores matches, their participants and raw timelines in
// memory. Insert semantics mirror the SQL layer: the write is atomic per
// match and a duplicate match_id leaves stored data untouched.
type MatchRepository struct {
	mu            sync.RWMutex
	byMatchID     map[string]match.Match
	participants  map[int64][]match.Participant
	timelines     map[string]timeline.Blob
	nextMatchPK   int64
	nextRowPK     int64
	nextTimelineI int64
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		byMatchID:     make(map[string]match.Match),
		participants:  make(map[int64][]match.Participant),
		timelines:     make(map[string]timeline.Blob),
		nextMatchPK:   1,
		nextRowPK:     1,
		nextTimelineI: 1,
	}
}

func (r *MatchRepository) Exists(_ context.Context, matchID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byMatchID[matchID]
	return ok, nil
}

func (r *MatchRepository) InsertIfAbsent(_ context.Context, m match.Match, participants []match.Participant, rawTimeline []byte) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byMatchID[m.MatchID]; exists {
		return false, nil
	}

	now := time.Now().UTC()
	m.ID = r.nextMatchPK
	r.nextMatchPK++
	m.CreatedAt = now
	r.byMatchID[m.MatchID] = m

	stored := make([]match.Participant, 0, len(participants))
	for _, p := range participants {
		p.ID = r.nextRowPK
		r.nextRowPK++
		p.MatchPK = m.ID
		stored = append(stored, p)
	}
	r.participants[m.ID] = stored

	r.timelines[m.MatchID] = timeline.Blob{
		ID:         r.nextTimelineI,
		MatchID:    m.MatchID,
		RawJSON:    append([]byte(nil), rawTimeline...),
		IngestedAt: now,
	}
	r.nextTimelineI++

	return true, nil
}

func (r *MatchRepository) GetByMatchID(_ context.Context, matchID string) (match.Match, []match.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byMatchID[matchID]
	if !ok {
		return match.Match{}, nil, match.ErrNotFound
	}
	return m, append([]match.Participant(nil), r.participants[m.ID]...), nil
}

func (r *MatchRepository) getTimeline(matchID string) (timeline.Blob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	blob, ok := r.timelines[matchID]
	return blob, ok
}

// snapshot returns stored matches ordered by primary key, for the metric
// repository's pending scan.
func (r *MatchRepository) snapshot() []match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.byMatchID))
	for _, m := range r.byMatchID {
		out = append(out, m)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ID > out[j].ID; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// TimelineRepository reads raw timelines stored by the match repository.
type TimelineRepository struct {
	matches *MatchRepository
}

func NewTimelineRepository(matches *MatchRepository) *TimelineRepository {
	return &TimelineRepository{matches: matches}
}

func (r *TimelineRepository) GetByMatchID(_ context.Context, matchID string) (timeline.Blob, error) {
	blob, ok := r.matches.getTimeline(matchID)
	if !ok {
		return timeline.Blob{}, timeline.ErrNotFound
	}
	return blob, nil
}
