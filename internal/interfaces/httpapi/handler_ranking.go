package httpapi

import "net/http"

type rankingEntry struct {
	Rank         int     `json:"rank"`
	PUUID        string  `json:"puuid"`
	Name         string  `json:"name"`
	Tag          string  `json:"tag"`
	Games        int     `json:"games"`
	AverageScore float64 `json:"averageScore"`
}

func (h *Handler) Ranking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Handler.Ranking")
	defer span.End()

	minGames, ok := parseQueryInt(w, r, "minGames", 0)
	if !ok {
		return
	}

	rows, err := h.ranking.Ranking(ctx, minGames)
	if err != nil {
		writeUsecaseError(ctx, w, h.logger, err)
		return
	}

	entries := make([]rankingEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, rankingEntry{
			Rank:         i + 1,
			PUUID:        row.PUUID,
			Name:         row.Name,
			Tag:          row.Tag,
			Games:        row.Games,
			AverageScore: row.AverageScore,
		})
	}
	writeData(w, http.StatusOK, map[string]any{"ranking": entries})
}
