package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/andryanduta/prem-insights/internal/platform/logging"
)

type matchStatsFetcher interface {
	FetchMatchStats(ctx context.Context, matchID string) ([]ExternalMatchTeamStats, error)
}

// MatchStatsService backs the per-match detail view. Detail stats are not
// cached; the view is opened rarely and always wants fresh numbers.
type MatchStatsService struct {
	fetcher matchStatsFetcher
	logger  *logging.Logger
}

func NewMatchStatsService(fetcher matchStatsFetcher, logger *logging.Logger) *MatchStatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchStatsService{
		fetcher: fetcher,
		logger:  logger,
	}
}

func (s *MatchStatsService) Get(ctx context.Context, matchID string) ([]ExternalMatchTeamStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchStatsService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	entries, err := s.fetcher.FetchMatchStats(ctx, matchID)
	if err != nil {
		s.logger.ErrorContext(ctx, "match stats unavailable", "match_id", matchID, "error", err)
		return nil, nil
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return entries, nil
}
