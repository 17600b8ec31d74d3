package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/capao/capitascore/internal/domain/metric"
)

// MetricRepository keeps player match metrics in memory. Pending scans and
// the ranking aggregate read through the match and member repositories, the
// same joins the SQL layer performs.
type MetricRepository struct {
	mu      sync.RWMutex
	rows    map[string]metric.PlayerMatchMetric
	scored  map[int64]bool
	nextID  int64
	matches *MatchRepository
	members *MemberRepository
}

func NewMetricRepository(matches *MatchRepository, members *MemberRepository) *MetricRepository {
	return &MetricRepository{
		rows:    make(map[string]metric.PlayerMatchMetric),
		scored:  make(map[int64]bool),
		nextID:  1,
		matches: matches,
		members: members,
	}
}

func metricKey(matchID string, participantID int) string {
	return fmt.Sprintf("%s#%d", matchID, participantID)
}

func (r *MetricRepository) ListPending(ctx context.Context, limit int) ([]metric.PendingMatch, error) {
	r.mu.RLock()
	scored := make(map[int64]bool, len(r.scored))
	for pk, ok := range r.scored {
		scored[pk] = ok
	}
	r.mu.RUnlock()

	var out []metric.PendingMatch
	for _, m := range r.matches.snapshot() {
		if scored[m.ID] {
			continue
		}
		blob, ok := r.matches.getTimeline(m.MatchID)
		if !ok {
			continue
		}

		_, participants, err := r.matches.GetByMatchID(ctx, m.MatchID)
		if err != nil {
			return nil, err
		}

		pending := metric.PendingMatch{
			MatchPK:      m.ID,
			MatchID:      m.MatchID,
			GameDuration: m.GameDuration,
			RawTimeline:  blob.RawJSON,
		}
		for _, p := range participants {
			pending.Participants = append(pending.Participants, metric.PendingParticipant{
				ParticipantPK:               p.ID,
				ParticipantNumber:           p.ParticipantNumber,
				PUUID:                       p.PUUID,
				TeamID:                      p.TeamID,
				ChampionName:                p.ChampionName,
				Kills:                       p.Kills,
				Deaths:                      p.Deaths,
				Assists:                     p.Assists,
				GoldEarned:                  p.GoldEarned,
				TotalMinionsKilled:          p.TotalMinionsKilled,
				NeutralMinionsKilled:        p.NeutralMinionsKilled,
				TotalDamageDealtToChampions: p.TotalDamageDealtToChampions,
				TotalDamageTaken:            p.TotalDamageTaken,
				WardsPlaced:                 p.WardsPlaced,
				WardsKilled:                 p.WardsKilled,
				VisionScore:                 p.VisionScore,
			})
		}

		out = append(out, pending)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MetricRepository) UpsertMany(_ context.Context, rows []metric.PlayerMatchMetric) error {
	if len(rows) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, row := range rows {
		key := metricKey(row.MatchID, row.ParticipantID)
		if existing, ok := r.rows[key]; ok {
			row.ID = existing.ID
			row.CreatedAt = existing.CreatedAt
		} else {
			row.ID = r.nextID
			r.nextID++
			row.CreatedAt = now
		}
		r.rows[key] = row
		r.scored[row.MatchPK] = true
	}
	return nil
}

func (r *MetricRepository) Ranking(ctx context.Context, minGames int) ([]metric.RankingRow, error) {
	if minGames < 1 {
		minGames = 1
	}

	members, err := r.members.List(ctx)
	if err != nil {
		return nil, err
	}
	tracked := make(map[string]int, len(members))
	for i, m := range members {
		tracked[m.PUUID] = i
	}

	type agg struct {
		games int
		total float64
	}

	r.mu.RLock()
	byPUUID := make(map[string]*agg)
	for _, row := range r.rows {
		if _, ok := tracked[row.PUUID]; !ok {
			continue
		}
		a, ok := byPUUID[row.PUUID]
		if !ok {
			a = &agg{}
			byPUUID[row.PUUID] = a
		}
		a.games++
		a.total += row.FinalScore
	}
	r.mu.RUnlock()

	out := make([]metric.RankingRow, 0, len(byPUUID))
	for puuid, a := range byPUUID {
		if a.games < minGames {
			continue
		}
		row := metric.RankingRow{
			PUUID:        puuid,
			Name:         "Unknown",
			Tag:          "",
			Games:        a.games,
			AverageScore: a.total / float64(a.games),
		}
		if idx, ok := tracked[puuid]; ok {
			row.Name = members[idx].DisplayName()
			row.Tag = members[idx].Tag
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore > out[j].AverageScore
		}
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
