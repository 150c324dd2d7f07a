package usecase

import (
	"context"
	"strings"

	"github.com/andryanduta/prem-insights/internal/domain/teamstat"
	"github.com/andryanduta/prem-insights/internal/platform/cache"
	"github.com/andryanduta/prem-insights/internal/platform/logging"
)

type statsFetcher interface {
	FetchTeamStats(ctx context.Context, season string, limit int) ([]ExternalTeamStat, error)
}

// StatsService loads season team statistics and derives the shot-quality
// metric per team. Results are memoized by (season, limit) in a TTL store.
type StatsService struct {
	fetcher statsFetcher
	store   *cache.Store
	logger  *logging.Logger
}

func NewStatsService(fetcher statsFetcher, store *cache.Store, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

// Load returns the deduplicated stat rows for a season. A terminal fetch
// failure degrades to an empty result; callers must treat empty as
// "unavailable", not "no data". Failed loads are not cached so the next
// call retries.
func (s *StatsService) Load(ctx context.Context, season string, limit int) []teamstat.TeamStat {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Load")
	defer span.End()

	key := cache.Key("stats", season, limit)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		entries, fetchErr := s.fetcher.FetchTeamStats(ctx, season, limit)
		if fetchErr != nil {
			return nil, fetchErr
		}

		stats := make([]teamstat.TeamStat, 0, len(entries))
		for _, entry := range entries {
			if strings.TrimSpace(entry.Name) == "" {
				continue
			}
			stats = append(stats, teamstat.New(
				entry.Name,
				entry.ShotsOnTargetIncGoals,
				entry.ShotsConcededInsideBox,
				entry.ShotsConcededOutsideBox,
			))
		}
		return teamstat.Dedupe(stats), nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "team statistics unavailable", "season", season, "limit", limit, "error", err)
		return nil
	}

	stats, ok := value.([]teamstat.TeamStat)
	if !ok {
		s.logger.ErrorContext(ctx, "unexpected cached stats payload", "season", season)
		return nil
	}
	return stats
}

// Flush drops all memoized stats entries.
func (s *StatsService) Flush(ctx context.Context) {
	s.store.Flush(ctx)
}
