package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/andryanduta/prem-insights/internal/domain/schedule"
	"github.com/andryanduta/prem-insights/internal/platform/cache"
	"github.com/andryanduta/prem-insights/internal/platform/logging"
	"github.com/andryanduta/prem-insights/internal/platform/timeconv"
	"github.com/andryanduta/prem-insights/internal/usecase"
)

type fakeStatsFetcher struct {
	stats []usecase.ExternalTeamStat
}

func (f *fakeStatsFetcher) FetchTeamStats(_ context.Context, _ string, _ int) ([]usecase.ExternalTeamStat, error) {
	return f.stats, nil
}

type fakeMatchesFetcher struct {
	matches []usecase.ExternalMatch
}

func (f *fakeMatchesFetcher) FetchMatches(_ context.Context, _ string, _ int) ([]usecase.ExternalMatch, error) {
	return f.matches, nil
}

type fakeMatchStatsFetcher struct {
	entries []usecase.ExternalMatchTeamStats
}

func (f *fakeMatchStatsFetcher) FetchMatchStats(_ context.Context, _ string) ([]usecase.ExternalMatchTeamStats, error) {
	return f.entries, nil
}

func newTestHandler(t *testing.T, stats *fakeStatsFetcher, matches *fakeMatchesFetcher, matchStats *fakeMatchStatsFetcher) *Handler {
	t.Helper()

	conv, err := timeconv.NewConverter("Australia/Melbourne", time.Hour)
	if err != nil {
		t.Fatalf("build converter: %v", err)
	}

	logger := logging.NewNop()
	scheduleService := usecase.NewScheduleService(
		usecase.NewStatsService(stats, cache.NewStore(time.Minute), logger),
		usecase.NewFixtureService(matches, cache.NewStore(time.Minute), logger),
		conv,
		schedule.DefaultCoefficients(),
		logger,
	)
	matchStatsService := usecase.NewMatchStatsService(matchStats, logger)

	return NewHandler(scheduleService, matchStatsService, Defaults{
		StatsSeason:    "2024",
		FixturesSeason: "2025",
		StatsLimit:     40,
		PageSize:       50,
	}, logger)
}

func defaultFixtures() []usecase.ExternalMatch {
	return []usecase.ExternalMatch{
		{MatchID: "1", MatchWeek: 1, Period: "FullTime", Kickoff: "2025-08-16T11:30:00Z", Ground: "Emirates Stadium", HomeName: "Arsenal", AwayName: "Wolves"},
		{MatchID: "2", MatchWeek: 2, Period: "PreMatch", Kickoff: "2025-08-23T14:00:00Z", Ground: "Molineux", HomeName: "Wolves", AwayName: "Arsenal"},
	}
}

func defaultStats() []usecase.ExternalTeamStat {
	return []usecase.ExternalTeamStat{
		{Name: "Arsenal", ShotsOnTargetIncGoals: 10, ShotsConcededInsideBox: 5, ShotsConcededOutsideBox: 5},
		{Name: "Wolves", ShotsOnTargetIncGoals: 3, ShotsConcededInsideBox: 4, ShotsConcededOutsideBox: 3},
	}
}

func TestGetSchedule_ReturnsJoinedRows(t *testing.T) {
	handler := newTestHandler(t,
		&fakeStatsFetcher{stats: defaultStats()},
		&fakeMatchesFetcher{matches: defaultFixtures()},
		&fakeMatchStatsFetcher{},
	)
	router := NewRouter(handler, logging.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data scheduleResponseDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	// prematch_only defaults to true, hiding the finished fixture.
	if body.Data.TotalFixtures != 2 {
		t.Fatalf("unexpected total fixtures: %d", body.Data.TotalFixtures)
	}
	if body.Data.FixturesShown != 1 {
		t.Fatalf("unexpected fixtures shown: %d", body.Data.FixturesShown)
	}
	if body.Data.TeamsLoaded != 2 {
		t.Fatalf("unexpected teams loaded: %d", body.Data.TeamsLoaded)
	}
	if len(body.Data.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(body.Data.Rows))
	}

	row := body.Data.Rows[0]
	if row.MatchID != "2" {
		t.Fatalf("unexpected match id: %s", row.MatchID)
	}
	if row.XGDiff == nil {
		t.Fatal("expected xg diff for fully joined row")
	}
	// Wolves home 0.3*5.0 + Arsenal away 0.5*(-4.6) = -0.8
	if *row.XGDiff != -0.8 {
		t.Fatalf("unexpected xg diff: %v", *row.XGDiff)
	}
	if !strings.HasSuffix(row.Kickoff, "AEST") {
		t.Fatalf("expected Melbourne kickoff display, got %q", row.Kickoff)
	}
}

func TestGetSchedule_InvalidLimitRejected(t *testing.T) {
	handler := newTestHandler(t, &fakeStatsFetcher{}, &fakeMatchesFetcher{}, &fakeMatchStatsFetcher{})
	router := NewRouter(handler, logging.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule?limit=-3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGetSchedule_InvalidSeasonRejected(t *testing.T) {
	handler := newTestHandler(t, &fakeStatsFetcher{}, &fakeMatchesFetcher{}, &fakeMatchStatsFetcher{})
	router := NewRouter(handler, logging.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule?stats_season=x999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestExportSchedule_WritesCSV(t *testing.T) {
	handler := newTestHandler(t,
		&fakeStatsFetcher{stats: defaultStats()},
		&fakeMatchesFetcher{matches: defaultFixtures()},
		&fakeMatchStatsFetcher{},
	)
	router := NewRouter(handler, logging.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule/export?prematch_only=false", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("unexpected content type: %s", got)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "match_id,match_week,period") {
		t.Fatalf("unexpected csv header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Arsenal") {
		t.Fatalf("expected first record to contain Arsenal, got %s", lines[1])
	}
}

func TestListMatchweeks_GroupsFixtures(t *testing.T) {
	handler := newTestHandler(t,
		&fakeStatsFetcher{},
		&fakeMatchesFetcher{matches: defaultFixtures()},
		&fakeMatchStatsFetcher{},
	)
	router := NewRouter(handler, logging.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/matchweeks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []matchweekGroupDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	// Pre-match fixtures are excluded from this view by default.
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 group, got %d", len(body.Data))
	}
	if body.Data[0].Week != 1 {
		t.Fatalf("unexpected week: %d", body.Data[0].Week)
	}
	if !strings.Contains(body.Data[0].Matches[0].HomeBadge, "badges/") {
		t.Fatalf("expected badge url, got %s", body.Data[0].Matches[0].HomeBadge)
	}
}

func TestGetMatchStats_NotFound(t *testing.T) {
	handler := newTestHandler(t, &fakeStatsFetcher{}, &fakeMatchesFetcher{}, &fakeMatchStatsFetcher{})
	router := NewRouter(handler, logging.NewNop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/9999/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestFlushCaches_ReturnsOK(t *testing.T) {
	handler := newTestHandler(t, &fakeStatsFetcher{}, &fakeMatchesFetcher{}, &fakeMatchStatsFetcher{})
	router := NewRouter(handler, logging.NewNop(), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/cache/flush", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "flushed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
