package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/andryanduta/prem-insights/internal/domain/teamstat"
)

// Match period states as reported by the upstream API. Anything else is
// treated as an opaque in-between state.
const (
	PeriodPreMatch = "PreMatch"
	PeriodLive     = "Live"
	PeriodFullTime = "FullTime"
)

// Fixture is one scheduled or played match. Kickoff is nil when the
// upstream timestamp failed to parse; scores are nil until the match starts.
type Fixture struct {
	MatchID   string
	MatchWeek int
	Period    string
	Kickoff   *time.Time
	Venue     string
	HomeTeam  string
	AwayTeam  string
	HomeKey   string
	AwayKey   string
	HomeScore *int
	AwayScore *int
}

func IsPreMatch(period string) bool {
	return strings.EqualFold(strings.TrimSpace(period), PeriodPreMatch)
}

// Sort orders fixtures by kickoff ascending with nil kickoffs last, then
// matchweek, then match id as the final tie-break.
func Sort(fixtures []Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		a, b := fixtures[i], fixtures[j]
		switch {
		case a.Kickoff == nil && b.Kickoff == nil:
			// fall through to matchweek
		case a.Kickoff == nil:
			return false
		case b.Kickoff == nil:
			return true
		case !a.Kickoff.Equal(*b.Kickoff):
			return a.Kickoff.Before(*b.Kickoff)
		}
		if a.MatchWeek != b.MatchWeek {
			return a.MatchWeek < b.MatchWeek
		}
		return a.MatchID < b.MatchID
	})
}

// Coefficients are the fixed calibration weights of the difference score.
// They are configuration, not fitted values.
type Coefficients struct {
	Home float64
	Away float64
}

func DefaultCoefficients() Coefficients {
	return Coefficients{Home: 5.0, Away: -4.6}
}

// Row joins one fixture with the shot-quality metrics of both teams.
// Percent and XGDiff are nil when the corresponding stats were missing.
type Row struct {
	Fixture
	HomePercent    *float64
	AwayPercent    *float64
	XGDiff         *float64
	KickoffDisplay string
}

type JoinResult struct {
	Rows []Row
	// MissingStats counts rows where at least one side had no stat row.
	MissingStats int
}

// Join produces one Row per fixture, looking up each side by normalized key.
// A missing key is an expected condition, counted rather than failed. When
// prematchOnly is set, fixtures already underway or finished are skipped
// before the join. Input order is preserved.
func Join(stats []teamstat.TeamStat, fixtures []Fixture, prematchOnly bool, coeffs Coefficients) JoinResult {
	metricByKey := make(map[string]*float64, len(stats))
	percentByKey := make(map[string]*float64, len(stats))
	for _, stat := range stats {
		metricByKey[stat.Key] = stat.Metric
		percentByKey[stat.Key] = stat.Percent
	}

	result := JoinResult{Rows: make([]Row, 0, len(fixtures))}
	for _, f := range fixtures {
		if prematchOnly && !IsPreMatch(f.Period) {
			continue
		}

		row := Row{
			Fixture:     f,
			HomePercent: percentByKey[f.HomeKey],
			AwayPercent: percentByKey[f.AwayKey],
		}

		homeMetric := metricByKey[f.HomeKey]
		awayMetric := metricByKey[f.AwayKey]
		if homeMetric != nil && awayMetric != nil {
			diff := teamstat.Round3(*homeMetric*coeffs.Home + *awayMetric*coeffs.Away)
			row.XGDiff = &diff
		}
		if row.HomePercent == nil || row.AwayPercent == nil {
			result.MissingStats++
		}

		result.Rows = append(result.Rows, row)
	}

	return result
}
