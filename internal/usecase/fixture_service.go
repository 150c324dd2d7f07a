package usecase

import (
	"context"

	"github.com/andryanduta/prem-insights/internal/domain/schedule"
	"github.com/andryanduta/prem-insights/internal/domain/teamstat"
	"github.com/andryanduta/prem-insights/internal/platform/cache"
	"github.com/andryanduta/prem-insights/internal/platform/logging"
	"github.com/andryanduta/prem-insights/internal/platform/timeconv"
)

type matchesFetcher interface {
	FetchMatches(ctx context.Context, season string, pageSize int) ([]ExternalMatch, error)
}

// FixtureService loads a season's fixtures across all pagination pages and
// sorts them deterministically. Results are memoized by (season, pageSize)
// with a shorter TTL than stats because live scores move.
type FixtureService struct {
	fetcher matchesFetcher
	store   *cache.Store
	logger  *logging.Logger
}

func NewFixtureService(fetcher matchesFetcher, store *cache.Store, logger *logging.Logger) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureService{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

// Load returns the sorted fixture list for a season. Terminal fetch
// failures degrade to an empty result; kickoffs that fail to parse become
// nil and sort last rather than aborting the load.
func (s *FixtureService) Load(ctx context.Context, season string, pageSize int) []schedule.Fixture {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Load")
	defer span.End()

	key := cache.Key("fixtures", season, pageSize)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		matches, fetchErr := s.fetcher.FetchMatches(ctx, season, pageSize)
		if fetchErr != nil {
			return nil, fetchErr
		}

		fixtures := make([]schedule.Fixture, 0, len(matches))
		for _, m := range matches {
			fixtures = append(fixtures, schedule.Fixture{
				MatchID:   m.MatchID,
				MatchWeek: m.MatchWeek,
				Period:    m.Period,
				Kickoff:   timeconv.ParseKickoff(m.Kickoff),
				Venue:     m.Ground,
				HomeTeam:  m.HomeName,
				AwayTeam:  m.AwayName,
				HomeKey:   teamstat.NormalizeName(m.HomeName),
				AwayKey:   teamstat.NormalizeName(m.AwayName),
				HomeScore: m.HomeScore,
				AwayScore: m.AwayScore,
			})
		}
		schedule.Sort(fixtures)
		return fixtures, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "fixtures unavailable", "season", season, "page_size", pageSize, "error", err)
		return nil
	}

	fixtures, ok := value.([]schedule.Fixture)
	if !ok {
		s.logger.ErrorContext(ctx, "unexpected cached fixtures payload", "season", season)
		return nil
	}
	return fixtures
}

// Flush drops all memoized fixture entries.
func (s *FixtureService) Flush(ctx context.Context) {
	s.store.Flush(ctx)
}
