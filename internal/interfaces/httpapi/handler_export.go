package httpapi

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/andryanduta/prem-insights/internal/domain/schedule"
)

var exportHeader = []string{
	"match_id", "match_week", "period", "kickoff", "venue",
	"home_team", "home_team_percent", "away_team", "away_team_percent", "xg_diff",
}

// ExportSchedule streams the joined schedule as a CSV download. It accepts
// the same query parameters as the JSON view.
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportSchedule")
	defer span.End()

	params, err := h.scheduleParamsFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scheduleService.Build(ctx, params)
	if err != nil {
		h.logger.WarnContext(ctx, "build schedule for export failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeader); err != nil {
		writeError(ctx, w, err)
		return
	}
	for _, row := range result.Rows {
		if err := writer.Write(exportRecord(row)); err != nil {
			writeError(ctx, w, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func exportRecord(row schedule.Row) []string {
	return []string{
		row.MatchID,
		strconv.Itoa(row.MatchWeek),
		row.Period,
		row.KickoffDisplay,
		row.Venue,
		row.HomeTeam,
		formatOptionalFloat(row.HomePercent, 2),
		row.AwayTeam,
		formatOptionalFloat(row.AwayPercent, 2),
		formatOptionalFloat(row.XGDiff, 3),
	}
}

func formatOptionalFloat(v *float64, precision int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}
