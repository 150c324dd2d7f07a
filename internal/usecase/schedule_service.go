package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/andryanduta/prem-insights/internal/domain/badge"
	"github.com/andryanduta/prem-insights/internal/domain/schedule"
	"github.com/andryanduta/prem-insights/internal/platform/logging"
	"github.com/andryanduta/prem-insights/internal/platform/timeconv"
)

// ScheduleParams selects what the pipeline runs over. Zero numeric values
// fall back to the configured defaults in the handler layer.
type ScheduleParams struct {
	StatsSeason    string
	FixturesSeason string
	StatsLimit     int
	PageSize       int
	PreMatchOnly   bool
	Limit          int
}

// ScheduleResult is one full pipeline invocation: the joined rows plus the
// counters the dashboard shows next to the table.
type ScheduleResult struct {
	Rows           []schedule.Row
	TeamsLoaded    int
	TotalFixtures  int
	FixturesShown  int
	MissingStats   int
}

// MatchweekMatch is one fixture in the round-grouped view.
type MatchweekMatch struct {
	MatchID   string
	HomeTeam  string
	AwayTeam  string
	HomeBadge string
	AwayBadge string
	HomeScore *int
	AwayScore *int
	Kickoff   string
	Period    string
	Venue     string
}

type MatchweekGroup struct {
	Week    int
	Matches []MatchweekMatch
}

// ScheduleService runs the join-and-metric pipeline: stats and fixtures are
// loaded independently, fixtures are limited and optionally filtered to
// pre-match, then joined by normalized team key.
type ScheduleService struct {
	stats    *StatsService
	fixtures *FixtureService
	conv     *timeconv.Converter
	coeffs   schedule.Coefficients
	logger   *logging.Logger
}

func NewScheduleService(
	stats *StatsService,
	fixtures *FixtureService,
	conv *timeconv.Converter,
	coeffs schedule.Coefficients,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		stats:    stats,
		fixtures: fixtures,
		conv:     conv,
		coeffs:   coeffs,
		logger:   logger,
	}
}

func (s *ScheduleService) Build(ctx context.Context, params ScheduleParams) (ScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Build")
	defer span.End()

	if strings.TrimSpace(params.StatsSeason) == "" || strings.TrimSpace(params.FixturesSeason) == "" {
		return ScheduleResult{}, fmt.Errorf("%w: stats and fixtures seasons are required", ErrInvalidInput)
	}

	stats := s.stats.Load(ctx, params.StatsSeason, params.StatsLimit)
	fixtures := s.fixtures.Load(ctx, params.FixturesSeason, params.PageSize)

	// Row limit applies to the sorted fixture list before the pre-match
	// filter, matching the dashboard's behavior.
	limited := fixtures
	if params.Limit > 0 && len(limited) > params.Limit {
		limited = limited[:params.Limit]
	}

	joined := schedule.Join(stats, limited, params.PreMatchOnly, s.coeffs)
	for i := range joined.Rows {
		joined.Rows[i].KickoffDisplay = s.conv.Format(joined.Rows[i].Kickoff)
	}

	if joined.MissingStats > 0 {
		s.logger.WarnContext(ctx, "fixtures missing team statistics",
			"missing", joined.MissingStats,
			"stats_season", params.StatsSeason,
			"fixtures_season", params.FixturesSeason,
		)
	}

	return ScheduleResult{
		Rows:          joined.Rows,
		TeamsLoaded:   len(stats),
		TotalFixtures: len(fixtures),
		FixturesShown: len(joined.Rows),
		MissingStats:  joined.MissingStats,
	}, nil
}

// Matchweeks groups a season's fixtures by round. Pre-match fixtures are
// excluded by default, mirroring the "matches by matchweek" view.
func (s *ScheduleService) Matchweeks(ctx context.Context, season string, pageSize int, includePreMatch bool) ([]MatchweekGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Matchweeks")
	defer span.End()

	if strings.TrimSpace(season) == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	fixtures := s.fixtures.Load(ctx, season, pageSize)

	byWeek := make(map[int][]MatchweekMatch)
	for _, f := range fixtures {
		if !includePreMatch && schedule.IsPreMatch(f.Period) {
			continue
		}
		byWeek[f.MatchWeek] = append(byWeek[f.MatchWeek], MatchweekMatch{
			MatchID:   f.MatchID,
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			HomeBadge: s.badgeURL(ctx, f.HomeTeam),
			AwayBadge: s.badgeURL(ctx, f.AwayTeam),
			HomeScore: f.HomeScore,
			AwayScore: f.AwayScore,
			Kickoff:   s.conv.Format(f.Kickoff),
			Period:    f.Period,
			Venue:     f.Venue,
		})
	}

	weeks := make([]int, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	groups := make([]MatchweekGroup, 0, len(weeks))
	for _, week := range weeks {
		groups = append(groups, MatchweekGroup{Week: week, Matches: byWeek[week]})
	}
	return groups, nil
}

// Flush clears every cached load; the next interaction refetches. There is
// no partial invalidation.
func (s *ScheduleService) Flush(ctx context.Context) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Flush")
	defer span.End()

	s.stats.Flush(ctx)
	s.fixtures.Flush(ctx)
	s.logger.InfoContext(ctx, "caches flushed")
}

func (s *ScheduleService) badgeURL(ctx context.Context, teamName string) string {
	url, known := badge.URL(teamName)
	if !known {
		s.logger.WarnContext(ctx, "no badge for team, serving placeholder", "team", teamName)
	}
	return url
}
