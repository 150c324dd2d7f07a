package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andryanduta/prem-insights/internal/domain/badge"
	"github.com/andryanduta/prem-insights/internal/domain/schedule"
	"github.com/andryanduta/prem-insights/internal/platform/cache"
	"github.com/andryanduta/prem-insights/internal/platform/logging"
	"github.com/andryanduta/prem-insights/internal/platform/timeconv"
)

func newScheduleService(t *testing.T, stats *stubStatsFetcher, matches *stubMatchesFetcher) *ScheduleService {
	t.Helper()

	conv, err := timeconv.NewConverter("Australia/Melbourne", time.Hour)
	require.NoError(t, err)

	logger := logging.NewNop()
	return NewScheduleService(
		NewStatsService(stats, cache.NewStore(time.Minute), logger),
		NewFixtureService(matches, cache.NewStore(time.Minute), logger),
		conv,
		schedule.DefaultCoefficients(),
		logger,
	)
}

func TestScheduleService_BuildJoinsAndCounts(t *testing.T) {
	t.Parallel()

	stats := &stubStatsFetcher{stats: []ExternalTeamStat{
		{Name: "Arsenal", ShotsOnTargetIncGoals: 10, ShotsConcededInsideBox: 5, ShotsConcededOutsideBox: 5},
		{Name: "Wolves", ShotsOnTargetIncGoals: 3, ShotsConcededInsideBox: 4, ShotsConcededOutsideBox: 3},
	}}
	matches := &stubMatchesFetcher{matches: []ExternalMatch{
		{MatchID: "1", MatchWeek: 1, Period: "PreMatch", Kickoff: "2025-08-16T11:30:00Z", HomeName: "Arsenal", AwayName: "Wolves"},
		{MatchID: "2", MatchWeek: 1, Period: "PreMatch", Kickoff: "2025-08-17T13:00:00Z", HomeName: "Newcastle", AwayName: "Wolves"},
	}}
	service := newScheduleService(t, stats, matches)

	result, err := service.Build(context.Background(), ScheduleParams{
		StatsSeason:    "2024",
		FixturesSeason: "2025",
		StatsLimit:     40,
		PageSize:       50,
		PreMatchOnly:   true,
	})
	require.NoError(t, err)

	require.Equal(t, 2, result.TeamsLoaded)
	require.Equal(t, 2, result.TotalFixtures)
	require.Equal(t, 2, result.FixturesShown)
	require.Equal(t, 1, result.MissingStats)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	require.NotNil(t, first.XGDiff)
	// home 0.5*5.0 + away 0.3*(-4.6) = 1.12
	require.InDelta(t, 1.12, *first.XGDiff, 1e-9)
	require.Equal(t, "2025-08-16 20:30 AEST", first.KickoffDisplay)

	second := result.Rows[1]
	require.Nil(t, second.XGDiff)
	require.Nil(t, second.HomePercent)
	require.NotNil(t, second.AwayPercent)
}

func TestScheduleService_BuildAppliesLimitBeforePreMatchFilter(t *testing.T) {
	t.Parallel()

	stats := &stubStatsFetcher{}
	matches := &stubMatchesFetcher{matches: []ExternalMatch{
		{MatchID: "1", MatchWeek: 1, Period: "FullTime", Kickoff: "2025-08-16T11:30:00Z", HomeName: "Arsenal", AwayName: "Wolves"},
		{MatchID: "2", MatchWeek: 1, Period: "PreMatch", Kickoff: "2025-08-17T13:00:00Z", HomeName: "Chelsea", AwayName: "Spurs"},
		{MatchID: "3", MatchWeek: 2, Period: "PreMatch", Kickoff: "2025-08-23T14:00:00Z", HomeName: "Everton", AwayName: "Fulham"},
	}}
	service := newScheduleService(t, stats, matches)

	result, err := service.Build(context.Background(), ScheduleParams{
		StatsSeason:    "2024",
		FixturesSeason: "2025",
		PreMatchOnly:   true,
		Limit:          2,
	})
	require.NoError(t, err)

	// The limit keeps fixtures 1 and 2; the filter then drops the finished
	// one. Fixture 3 must not slide into the freed slot.
	require.Equal(t, 3, result.TotalFixtures)
	require.Equal(t, 1, result.FixturesShown)
	require.Equal(t, "2", result.Rows[0].MatchID)
}

func TestScheduleService_BuildRequiresSeasons(t *testing.T) {
	t.Parallel()

	service := newScheduleService(t, &stubStatsFetcher{}, &stubMatchesFetcher{})

	_, err := service.Build(context.Background(), ScheduleParams{FixturesSeason: "2025"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Build(context.Background(), ScheduleParams{StatsSeason: "2024"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestScheduleService_MatchweeksGroupsAndFiltersPreMatch(t *testing.T) {
	t.Parallel()

	two := 2
	zero := 0
	matches := &stubMatchesFetcher{matches: []ExternalMatch{
		{MatchID: "1", MatchWeek: 1, Period: "FullTime", Kickoff: "2025-08-16T11:30:00Z", HomeName: "Arsenal", AwayName: "Wolves", HomeScore: &two, AwayScore: &zero},
		{MatchID: "2", MatchWeek: 2, Period: "Live", Kickoff: "2025-08-23T14:00:00Z", HomeName: "Liverpool", AwayName: "Everton"},
		{MatchID: "3", MatchWeek: 2, Period: "PreMatch", Kickoff: "2025-08-23T16:30:00Z", HomeName: "Sheffield Wednesday", AwayName: "Chelsea"},
	}}
	service := newScheduleService(t, &stubStatsFetcher{}, matches)

	groups, err := service.Matchweeks(context.Background(), "2025", 50, false)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, 1, groups[0].Week)
	require.Equal(t, 2, groups[1].Week)
	require.Len(t, groups[1].Matches, 1)

	played := groups[0].Matches[0]
	require.NotNil(t, played.HomeScore)
	require.Equal(t, 2, *played.HomeScore)
	require.NotEqual(t, badge.PlaceholderURL, played.HomeBadge)

	withPrematch, err := service.Matchweeks(context.Background(), "2025", 50, true)
	require.NoError(t, err)
	require.Len(t, withPrematch[1].Matches, 2)
	// Sheffield Wednesday is not in the badge table.
	require.Equal(t, badge.PlaceholderURL, withPrematch[1].Matches[1].HomeBadge)
}

func TestScheduleService_FlushForcesRefetchOfBothLoads(t *testing.T) {
	t.Parallel()

	stats := &stubStatsFetcher{stats: []ExternalTeamStat{{Name: "Arsenal", ShotsOnTargetIncGoals: 4}}}
	matches := &stubMatchesFetcher{matches: []ExternalMatch{{MatchID: "1", MatchWeek: 1, Period: "PreMatch"}}}
	service := newScheduleService(t, stats, matches)

	params := ScheduleParams{StatsSeason: "2024", FixturesSeason: "2025"}
	_, err := service.Build(context.Background(), params)
	require.NoError(t, err)
	_, err = service.Build(context.Background(), params)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.calls.Load())
	require.EqualValues(t, 1, matches.calls.Load())

	service.Flush(context.Background())

	_, err = service.Build(context.Background(), params)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.calls.Load())
	require.EqualValues(t, 2, matches.calls.Load())
}

var errUpstream = errors.New("upstream down")

func TestScheduleService_BuildSurvivesUpstreamFailures(t *testing.T) {
	t.Parallel()

	service := newScheduleService(t, &stubStatsFetcher{err: errUpstream}, &stubMatchesFetcher{err: errUpstream})

	result, err := service.Build(context.Background(), ScheduleParams{StatsSeason: "2024", FixturesSeason: "2025"})
	require.NoError(t, err)
	require.Empty(t, result.Rows)
	require.Zero(t, result.TeamsLoaded)
	require.Zero(t, result.TotalFixtures)
}
