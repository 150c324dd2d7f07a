package usecase

// External types mirror what the upstream fixtures API returns, shaped for
// the loaders. The pulse client produces them; nothing else does.

// ExternalTeamStat is one leaderboard row: a team plus the raw shot counts
// the shot-quality metric is derived from.
type ExternalTeamStat struct {
	Name                    string
	ShotsOnTargetIncGoals   float64
	ShotsConcededInsideBox  float64
	ShotsConcededOutsideBox float64
}

// ExternalMatch is one fixture as delivered by the matches endpoint.
// Kickoff stays a raw string here; parsing happens in the fixture loader so
// a bad timestamp degrades a single row instead of the whole page.
type ExternalMatch struct {
	MatchID   string
	MatchWeek int
	Period    string
	Kickoff   string
	Ground    string
	HomeName  string
	AwayName  string
	HomeScore *int
	AwayScore *int
}

// ExternalMatchTeamStats is one team's stat block from the per-match stats
// endpoint, kept as a name/value map because the stat catalogue varies by
// match state.
type ExternalMatchTeamStats struct {
	TeamName string
	Stats    map[string]float64
}
