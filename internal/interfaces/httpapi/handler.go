package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/andryanduta/prem-insights/internal/domain/schedule"
	"github.com/andryanduta/prem-insights/internal/platform/logging"
	"github.com/andryanduta/prem-insights/internal/usecase"
)

// Defaults fill in schedule parameters the caller leaves out. The stats and
// fixtures seasons differ on purpose: the metric is calibrated on the
// completed season while fixtures come from the running one.
type Defaults struct {
	StatsSeason    string
	FixturesSeason string
	StatsLimit     int
	PageSize       int
}

type Handler struct {
	scheduleService   *usecase.ScheduleService
	matchStatsService *usecase.MatchStatsService
	defaults          Defaults
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	scheduleService *usecase.ScheduleService,
	matchStatsService *usecase.MatchStatsService,
	defaults Defaults,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scheduleService:   scheduleService,
		matchStatsService: matchStatsService,
		defaults:          defaults,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type scheduleRowDTO struct {
	MatchID     string   `json:"matchId"`
	MatchWeek   int      `json:"matchWeek"`
	Period      string   `json:"period"`
	Kickoff     string   `json:"kickoff"`
	Venue       string   `json:"venue"`
	HomeTeam    string   `json:"homeTeam"`
	AwayTeam    string   `json:"awayTeam"`
	HomeScore   *int     `json:"homeScore"`
	AwayScore   *int     `json:"awayScore"`
	HomePercent *float64 `json:"homeTeamPercent"`
	AwayPercent *float64 `json:"awayTeamPercent"`
	XGDiff      *float64 `json:"xgDiff"`
}

type scheduleResponseDTO struct {
	Rows          []scheduleRowDTO `json:"rows"`
	TeamsLoaded   int              `json:"teamsLoaded"`
	TotalFixtures int              `json:"totalFixtures"`
	FixturesShown int              `json:"fixturesShown"`
	MissingStats  int              `json:"missingStats"`
}

type matchweekMatchDTO struct {
	MatchID   string `json:"matchId"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeBadge string `json:"homeBadge"`
	AwayBadge string `json:"awayBadge"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
	Kickoff   string `json:"kickoff"`
	Period    string `json:"period"`
	Venue     string `json:"venue"`
}

type matchweekGroupDTO struct {
	Week    int                 `json:"week"`
	Matches []matchweekMatchDTO `json:"matches"`
}

type matchTeamStatsDTO struct {
	TeamName string             `json:"teamName"`
	Stats    map[string]float64 `json:"stats"`
}

func scheduleRowToDTO(row schedule.Row) scheduleRowDTO {
	return scheduleRowDTO{
		MatchID:     row.MatchID,
		MatchWeek:   row.MatchWeek,
		Period:      row.Period,
		Kickoff:     row.KickoffDisplay,
		Venue:       row.Venue,
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		HomeScore:   row.HomeScore,
		AwayScore:   row.AwayScore,
		HomePercent: row.HomePercent,
		AwayPercent: row.AwayPercent,
		XGDiff:      row.XGDiff,
	}
}

func matchweekGroupToDTO(group usecase.MatchweekGroup) matchweekGroupDTO {
	matches := make([]matchweekMatchDTO, 0, len(group.Matches))
	for _, m := range group.Matches {
		matches = append(matches, matchweekMatchDTO{
			MatchID:   m.MatchID,
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			HomeBadge: m.HomeBadge,
			AwayBadge: m.AwayBadge,
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
			Kickoff:   m.Kickoff,
			Period:    m.Period,
			Venue:     m.Venue,
		})
	}
	return matchweekGroupDTO{Week: group.Week, Matches: matches}
}
