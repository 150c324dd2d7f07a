package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andryanduta/prem-insights/internal/usecase"
)

type matchweekQueryRequest struct {
	Season string `validate:"required,numeric,len=4"`
}

func (h *Handler) ListMatchweeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchweeks")
	defer span.End()

	query := r.URL.Query()

	season := strings.TrimSpace(query.Get("season"))
	if season == "" {
		season = h.defaults.FixturesSeason
	}

	includePreMatch := false
	if raw := strings.TrimSpace(query.Get("include_prematch")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: include_prematch must be a boolean", usecase.ErrInvalidInput))
			return
		}
		includePreMatch = v
	}

	if err := h.validateRequest(ctx, matchweekQueryRequest{Season: season}); err != nil {
		writeError(ctx, w, err)
		return
	}

	groups, err := h.scheduleService.Matchweeks(ctx, season, h.defaults.PageSize, includePreMatch)
	if err != nil {
		h.logger.WarnContext(ctx, "list matchweeks failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchweekGroupDTO, 0, len(groups))
	for _, group := range groups {
		items = append(items, matchweekGroupToDTO(group))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
