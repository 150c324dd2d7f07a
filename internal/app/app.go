package app

import (
	"fmt"
	"net/http"

	"github.com/andryanduta/prem-insights/external/pulse"
	"github.com/andryanduta/prem-insights/internal/config"
	"github.com/andryanduta/prem-insights/internal/domain/schedule"
	"github.com/andryanduta/prem-insights/internal/interfaces/httpapi"
	"github.com/andryanduta/prem-insights/internal/platform/cache"
	"github.com/andryanduta/prem-insights/internal/platform/logging"
	"github.com/andryanduta/prem-insights/internal/platform/resilience"
	"github.com/andryanduta/prem-insights/internal/platform/timeconv"
	"github.com/andryanduta/prem-insights/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	conv, err := timeconv.NewConverter(cfg.DisplayTimezone, cfg.KickoffCorrection)
	if err != nil {
		return nil, fmt.Errorf("build kickoff converter: %w", err)
	}

	pulseClient := pulse.NewClient(pulse.ClientConfig{
		StatsURL:      cfg.PulseStatsURL,
		MatchesURL:    cfg.PulseMatchesURL,
		CompetitionID: cfg.PulseCompetitionID,
		Timeout:       cfg.PulseTimeout,
		MaxAttempts:   cfg.PulseMaxAttempts,
		BackoffUnit:   cfg.PulseBackoffUnit,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PulseCircuitEnabled,
			FailureThreshold: cfg.PulseCircuitFailureCount,
			OpenTimeout:      cfg.PulseCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PulseCircuitHalfOpenMaxReq,
		},
	})

	// Stats and fixtures live in separate stores so each keeps its own TTL.
	statsSvc := usecase.NewStatsService(pulseClient, cache.NewStore(cfg.StatsTTL), logger)
	fixtureSvc := usecase.NewFixtureService(pulseClient, cache.NewStore(cfg.FixturesTTL), logger)
	scheduleSvc := usecase.NewScheduleService(
		statsSvc,
		fixtureSvc,
		conv,
		schedule.Coefficients{Home: cfg.XGHomeCoeff, Away: cfg.XGAwayCoeff},
		logger,
	)
	matchStatsSvc := usecase.NewMatchStatsService(pulseClient, logger)

	handler := httpapi.NewHandler(scheduleSvc, matchStatsSvc, httpapi.Defaults{
		StatsSeason:    cfg.DefaultStatsSeason,
		FixturesSeason: cfg.DefaultFixturesSeason,
		StatsLimit:     cfg.DefaultStatsLimit,
		PageSize:       cfg.DefaultPageSize,
	}, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
