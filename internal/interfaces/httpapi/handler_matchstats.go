package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchStats")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	entries, err := h.matchStatsService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match stats failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchTeamStatsDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, matchTeamStatsDTO{
			TeamName: entry.TeamName,
			Stats:    entry.Stats,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
