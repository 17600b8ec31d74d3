package usecase

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/capao/capitascore/internal/domain/metric"
)

// Composite score weights. They sum to 1.0; deaths are inverted during
// normalization so a lower death rate scores higher.
const (
	weightKDA            = 0.12
	weightDmgPerMin      = 0.10
	weightGoldPerMin     = 0.08
	weightCSPerMin       = 0.08
	weightKP             = 0.10
	weightDmgTakenPerMin = 0.07
	weightDeathsPerMin   = 0.10
	weightXPPerMin       = 0.10
	weightVisionPerMin   = 0.10
	weightCCPerMin       = 0.15
)

type timelineDoc struct {
	Metadata struct {
		Participants []string `json:"participants"`
	} `json:"metadata"`
	Info struct {
		Frames []timelineFrame `json:"frames"`
	} `json:"info"`
}

type timelineFrame struct {
	ParticipantFrames map[string]timelineParticipantFrame `json:"participantFrames"`
	Events            []timelineEvent                     `json:"events"`
}

type timelineParticipantFrame struct {
	XP                       float64 `json:"xp"`
	TimeEnemySpentControlled float64 `json:"timeEnemySpentControlled"`
}

type timelineEvent struct {
	Type      string `json:"type"`
	CreatorID int    `json:"creatorId"`
	KillerID  int    `json:"killerId"`
}

// timelineStats is what the raw timeline contributes per participant id
// (1..10): the final xp value, the maximum crowd-control time observed
// across frames (milliseconds), and ward event counts.
type timelineStats struct {
	finalXP     float64
	maxCCTime   float64
	wardsPlaced int
	wardsKilled int
}

func parseTimeline(raw []byte) (map[string]int, map[int]*timelineStats, error) {
	var doc timelineDoc
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode timeline: %w", err)
	}

	// metadata.participants is ordered; index+1 is the participant id used
	// by frames and events.
	idByPUUID := make(map[string]int, len(doc.Metadata.Participants))
	for i, puuid := range doc.Metadata.Participants {
		idByPUUID[puuid] = i + 1
	}

	stats := make(map[int]*timelineStats, len(idByPUUID))
	statsFor := func(pid int) *timelineStats {
		s, ok := stats[pid]
		if !ok {
			s = &timelineStats{}
			stats[pid] = s
		}
		return s
	}

	for _, frame := range doc.Info.Frames {
		for key, pf := range frame.ParticipantFrames {
			pid := 0
			if _, err := fmt.Sscanf(key, "%d", &pid); err != nil || pid <= 0 {
				continue
			}
			s := statsFor(pid)
			s.finalXP = pf.XP
			if pf.TimeEnemySpentControlled > s.maxCCTime {
				s.maxCCTime = pf.TimeEnemySpentControlled
			}
		}
		for _, event := range frame.Events {
			switch event.Type {
			case "WARD_PLACED":
				if event.CreatorID > 0 {
					statsFor(event.CreatorID).wardsPlaced++
				}
			case "WARD_KILL":
				if event.KillerID > 0 {
					statsFor(event.KillerID).wardsKilled++
				}
			}
		}
	}

	return idByPUUID, stats, nil
}

// computeMatchMetrics turns one pending match into metric rows. Raw
// per-minute values come from the stored participant stats plus the
// timeline; normalized scores are min-max scaled to 0..100 within the match
// and combined into the weighted final score.
func computeMatchMetrics(pending metric.PendingMatch) ([]metric.PlayerMatchMetric, error) {
	if pending.GameDuration <= 0 {
		return nil, nil
	}
	if len(pending.Participants) == 0 {
		return nil, nil
	}

	idByPUUID, tlStats, err := parseTimeline(pending.RawTimeline)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", pending.MatchID, err)
	}

	minutes := float64(pending.GameDuration) / 60.0

	teamKills := make(map[int]int)
	for _, p := range pending.Participants {
		teamKills[p.TeamID] += p.Kills
	}

	rows := make([]metric.PlayerMatchMetric, 0, len(pending.Participants))
	for _, p := range pending.Participants {
		pid := p.ParticipantNumber
		if mapped, ok := idByPUUID[p.PUUID]; ok {
			pid = mapped
		}

		var tl timelineStats
		if s, ok := tlStats[pid]; ok {
			tl = *s
		}
		ccSeconds := tl.maxCCTime / 1000.0

		kda := float64(p.Kills + p.Assists)
		if p.Deaths > 0 {
			kda = float64(p.Kills+p.Assists) / float64(p.Deaths)
		}

		kp := 0.0
		if kills := teamKills[p.TeamID]; kills > 0 {
			kp = float64(p.Kills+p.Assists) / float64(kills)
		}

		rows = append(rows, metric.PlayerMatchMetric{
			MatchPK:        pending.MatchPK,
			ParticipantPK:  p.ParticipantPK,
			MatchID:        pending.MatchID,
			ParticipantID:  pid,
			PUUID:          p.PUUID,
			TeamID:         p.TeamID,
			ChampionName:   p.ChampionName,
			KDA:            kda,
			DmgPerMin:      float64(p.TotalDamageDealtToChampions) / minutes,
			GoldPerMin:     float64(p.GoldEarned) / minutes,
			CSPerMin:       float64(p.TotalMinionsKilled+p.NeutralMinionsKilled) / minutes,
			KP:             kp,
			DmgTakenPerMin: float64(p.TotalDamageTaken) / minutes,
			DeathsPerMin:   float64(p.Deaths) / minutes,
			XPPerMin:       tl.finalXP / minutes,
			VisionPerMin:   float64(tl.wardsPlaced+tl.wardsKilled) / minutes,
			CCPerMin:       ccSeconds / minutes,
		})
	}

	normalizeScores(rows)
	return rows, nil
}

// normalizeScores min-max scales each raw metric across the match to
// 0..100. When all participants share the same value everyone gets 50.
// Deaths per minute is inverted: fewer deaths, higher score.
func normalizeScores(rows []metric.PlayerMatchMetric) {
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.KDA }, func(r *metric.PlayerMatchMetric, v float64) { r.KDAScore = v }, false)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.DmgPerMin }, func(r *metric.PlayerMatchMetric, v float64) { r.DmgPerMinScore = v }, false)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.GoldPerMin }, func(r *metric.PlayerMatchMetric, v float64) { r.GoldPerMinScore = v }, false)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.CSPerMin }, func(r *metric.PlayerMatchMetric, v float64) { r.CSPerMinScore = v }, false)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.KP }, func(r *metric.PlayerMatchMetric, v float64) { r.KPScore = v }, false)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.DmgTakenPerMin }, func(r *metric.PlayerMatchMetric, v float64) { r.DmgTakenPerMinScore = v }, false)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.DeathsPerMin }, func(r *metric.PlayerMatchMetric, v float64) { r.DeathsPerMinScore = v }, true)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.XPPerMin }, func(r *metric.PlayerMatchMetric, v float64) { r.XPPerMinScore = v }, false)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.VisionPerMin }, func(r *metric.PlayerMatchMetric, v float64) { r.VisionPerMinScore = v }, false)
	scale(rows, func(r *metric.PlayerMatchMetric) float64 { return r.CCPerMin }, func(r *metric.PlayerMatchMetric, v float64) { r.CCPerMinScore = v }, false)

	for i := range rows {
		r := &rows[i]
		r.FinalScore = weightKDA*r.KDAScore +
			weightDmgPerMin*r.DmgPerMinScore +
			weightGoldPerMin*r.GoldPerMinScore +
			weightCSPerMin*r.CSPerMinScore +
			weightKP*r.KPScore +
			weightDmgTakenPerMin*r.DmgTakenPerMinScore +
			weightDeathsPerMin*r.DeathsPerMinScore +
			weightXPPerMin*r.XPPerMinScore +
			weightVisionPerMin*r.VisionPerMinScore +
			weightCCPerMin*r.CCPerMinScore
	}
}

func scale(rows []metric.PlayerMatchMetric, get func(*metric.PlayerMatchMetric) float64, set func(*metric.PlayerMatchMetric, float64), invert bool) {
	if len(rows) == 0 {
		return
	}

	minVal := get(&rows[0])
	maxVal := minVal
	for i := range rows[1:] {
		v := get(&rows[i+1])
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	spread := maxVal - minVal
	for i := range rows {
		if spread == 0 {
			set(&rows[i], 50)
			continue
		}
		score := (get(&rows[i]) - minVal) / spread * 100
		if invert {
			score = 100 - score
		}
		set(&rows[i], score)
	}
}
