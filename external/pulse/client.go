// Package pulse is the client for the Pulselive football data API that
// serves premierleague.com. The API is public but fronted by checks that
// expect browser-like headers, and it rate-limits aggressively, so every
// request carries the fixed header set and retries transient failures with
// capped exponential backoff.
package pulse

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/andryanduta/prem-insights/internal/platform/logging"
	"github.com/andryanduta/prem-insights/internal/platform/resilience"
	"github.com/andryanduta/prem-insights/internal/usecase"
)

const (
	defaultStatsURL   = "https://sdp-prem-prod.premier-league-prod.pulselive.com/api/v2/competitions/8/teams/stats/leaderboard"
	defaultMatchesURL = "https://sdp-prem-prod.premier-league-prod.pulselive.com/api/v2/matches"

	defaultCompetitionID = "8"
	defaultStatsSort     = "total_shots:desc"

	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 5
	defaultBackoffCap  = 8

	maxResponseBytes = 6 << 20
)

var errPulseTransient = crerr.New("pulse transient failure")

var requestHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0",
	"Origin":          "https://www.premierleague.com",
	"Referer":         "https://www.premierleague.com/fixtures",
	"Accept":          "application/json",
	"Accept-Language": "en-GB,en;q=0.9",
}

type ClientConfig struct {
	HTTPClient    *http.Client
	StatsURL      string
	MatchesURL    string
	CompetitionID string
	Timeout       time.Duration
	// MaxAttempts is the total request budget including the first try.
	MaxAttempts int
	// BackoffUnit scales the retry delay; production leaves it at one
	// second, tests shrink it.
	BackoffUnit    time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	statsURL       string
	matchesURL     string
	competitionID  string
	maxAttempts    int
	backoffUnit    time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	statsURL := strings.TrimSpace(cfg.StatsURL)
	if statsURL == "" {
		statsURL = defaultStatsURL
	}
	matchesURL := strings.TrimRight(strings.TrimSpace(cfg.MatchesURL), "/")
	if matchesURL == "" {
		matchesURL = defaultMatchesURL
	}
	competitionID := strings.TrimSpace(cfg.CompetitionID)
	if competitionID == "" {
		competitionID = defaultCompetitionID
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	backoffUnit := cfg.BackoffUnit
	if backoffUnit <= 0 {
		backoffUnit = time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		statsURL:       statsURL,
		matchesURL:     matchesURL,
		competitionID:  competitionID,
		maxAttempts:    maxAttempts,
		backoffUnit:    backoffUnit,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchTeamStats requests the season stats leaderboard: a single bounded
// request with a fixed server-side sort, no pagination.
func (c *Client) FetchTeamStats(ctx context.Context, season string, limit int) ([]usecase.ExternalTeamStat, error) {
	query := map[string]string{
		"_sort":  defaultStatsSort,
		"season": strings.TrimSpace(season),
		"_limit": strconv.Itoa(limit),
	}

	var envelope statsEnvelope
	if err := c.doJSON(ctx, c.statsURL, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch team stats season=%s: %w", season, err)
	}

	out := make([]usecase.ExternalTeamStat, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, usecase.ExternalTeamStat{
			Name:                    strings.TrimSpace(item.TeamMetadata.Name),
			ShotsOnTargetIncGoals:   item.Stats["shotsOnTargetIncGoals"],
			ShotsConcededInsideBox:  item.Stats["shotsOnConcededInsideBox"],
			ShotsConcededOutsideBox: item.Stats["shotsOnConcededOutsideBox"],
		})
	}
	return out, nil
}

// FetchMatches walks the season's fixture pages, following the server's
// _next cursor. A failed or empty page ends pagination and is accepted as
// end-of-data; whatever accumulated so far is returned.
func (c *Client) FetchMatches(ctx context.Context, season string, pageSize int) ([]usecase.ExternalMatch, error) {
	query := map[string]string{
		"competition": c.competitionID,
		"season":      strings.TrimSpace(season),
		"_limit":      strconv.Itoa(pageSize),
	}

	items := make([]usecase.ExternalMatch, 0, pageSize)
	for {
		var envelope matchesEnvelope
		if err := c.doJSON(ctx, c.matchesURL, query, &envelope); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if len(items) == 0 {
				return nil, fmt.Errorf("fetch matches season=%s: %w", season, err)
			}
			c.logger.WarnContext(ctx, "fixture page fetch failed, keeping accumulated pages",
				"season", season, "matches_loaded", len(items), "error", err)
			return items, nil
		}

		if len(envelope.Data) == 0 {
			return items, nil
		}
		for _, item := range envelope.Data {
			items = append(items, mapMatch(item))
		}

		next := strings.TrimSpace(envelope.Pagination.Next)
		if next == "" {
			return items, nil
		}
		query["_next"] = next
	}
}

// FetchMatchStats requests the stats-by-match endpoint used by the detail
// view.
func (c *Client) FetchMatchStats(ctx context.Context, matchID string) ([]usecase.ExternalMatchTeamStats, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("match id is required")
	}

	var envelope statsEnvelope
	statsURL := c.matchesURL + "/" + url.PathEscape(matchID) + "/stats"
	if err := c.doJSON(ctx, statsURL, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch match stats match_id=%s: %w", matchID, err)
	}

	out := make([]usecase.ExternalMatchTeamStats, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, usecase.ExternalMatchTeamStats{
			TeamName: strings.TrimSpace(item.TeamMetadata.Name),
			Stats:    item.Stats,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, rawURL string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "pulse circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fixtures provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := rawURL
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errPulseTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		for key, value := range requestHeaders {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errPulseTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errPulseTransient, readErr)
			case resp.StatusCode == http.StatusOK:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errPulseTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				// Terminal status, no point retrying.
				lastErr = fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				c.logger.WarnContext(ctx, "pulse request rejected", "url", fullURL, "status", resp.StatusCode)
				return nil, lastErr
			}
		}

		if attempt == c.maxAttempts-1 {
			break
		}
		timer := time.NewTimer(c.backoffDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "pulse request failed", "url", fullURL, "attempts", c.maxAttempts, "error", lastErr)
	return nil, lastErr
}

// backoffDelay is min(2^attempt, 8) backoff units, so 1s, 2s, 4s, 8s with
// the default unit.
func (c *Client) backoffDelay(attempt int) time.Duration {
	units := 1 << attempt
	if units > defaultBackoffCap {
		units = defaultBackoffCap
	}
	return time.Duration(units) * c.backoffUnit
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const max = 500
	body := strings.TrimSpace(string(raw))
	if len(body) > max {
		return body[:max] + "..."
	}
	return body
}
