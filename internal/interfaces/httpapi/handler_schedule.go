package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andryanduta/prem-insights/internal/usecase"
)

type scheduleQueryRequest struct {
	StatsSeason    string `validate:"required,numeric,len=4"`
	FixturesSeason string `validate:"required,numeric,len=4"`
	Limit          int    `validate:"gte=0"`
}

func (h *Handler) scheduleParamsFromQuery(r *http.Request) (usecase.ScheduleParams, error) {
	query := r.URL.Query()

	statsSeason := strings.TrimSpace(query.Get("stats_season"))
	if statsSeason == "" {
		statsSeason = h.defaults.StatsSeason
	}
	fixturesSeason := strings.TrimSpace(query.Get("fixtures_season"))
	if fixturesSeason == "" {
		fixturesSeason = h.defaults.FixturesSeason
	}

	prematchOnly := true
	if raw := strings.TrimSpace(query.Get("prematch_only")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return usecase.ScheduleParams{}, fmt.Errorf("%w: prematch_only must be a boolean", usecase.ErrInvalidInput)
		}
		prematchOnly = v
	}

	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return usecase.ScheduleParams{}, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
		}
		limit = v
	}

	if err := h.validateRequest(r.Context(), scheduleQueryRequest{
		StatsSeason:    statsSeason,
		FixturesSeason: fixturesSeason,
		Limit:          limit,
	}); err != nil {
		return usecase.ScheduleParams{}, err
	}

	return usecase.ScheduleParams{
		StatsSeason:    statsSeason,
		FixturesSeason: fixturesSeason,
		StatsLimit:     h.defaults.StatsLimit,
		PageSize:       h.defaults.PageSize,
		PreMatchOnly:   prematchOnly,
		Limit:          limit,
	}, nil
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	params, err := h.scheduleParamsFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scheduleService.Build(ctx, params)
	if err != nil {
		h.logger.WarnContext(ctx, "build schedule failed",
			"stats_season", params.StatsSeason, "fixtures_season", params.FixturesSeason, "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := make([]scheduleRowDTO, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, scheduleRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleResponseDTO{
		Rows:          rows,
		TeamsLoaded:   result.TeamsLoaded,
		TotalFixtures: result.TotalFixtures,
		FixturesShown: result.FixturesShown,
		MissingStats:  result.MissingStats,
	})
}

func (h *Handler) FlushCaches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FlushCaches")
	defer span.End()

	h.scheduleService.Flush(ctx)

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "flushed"})
}
