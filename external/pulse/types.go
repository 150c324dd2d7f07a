package pulse

import (
	"encoding/json"
	"strings"

	"github.com/andryanduta/prem-insights/internal/usecase"
)

// statsEnvelope covers both the leaderboard and the per-match stats
// responses, which share the data item shape.
type statsEnvelope struct {
	Data []statsItem `json:"data"`
}

type statsItem struct {
	TeamMetadata teamMetadata       `json:"teamMetadata"`
	Stats        map[string]float64 `json:"stats"`
}

type teamMetadata struct {
	Name string `json:"name"`
}

type matchesEnvelope struct {
	Data       []matchItem `json:"data"`
	Pagination pagination  `json:"pagination"`
}

type pagination struct {
	Next string `json:"_next"`
}

// matchItem tolerates the provider's loose typing: ids and weeks arrive as
// numbers on some endpoints and strings on others.
type matchItem struct {
	MatchID   json.Number `json:"matchId"`
	MatchWeek json.Number `json:"matchWeek"`
	Period    string      `json:"period"`
	Kickoff   string      `json:"kickoff"`
	Ground    string      `json:"ground"`
	HomeTeam  matchTeam   `json:"homeTeam"`
	AwayTeam  matchTeam   `json:"awayTeam"`
	Score     *matchScore `json:"score"`
}

type matchTeam struct {
	Name string `json:"name"`
}

type matchScore struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func mapMatch(item matchItem) usecase.ExternalMatch {
	out := usecase.ExternalMatch{
		MatchID:   item.MatchID.String(),
		MatchWeek: numberToInt(item.MatchWeek),
		Period:    strings.TrimSpace(item.Period),
		Kickoff:   strings.TrimSpace(item.Kickoff),
		Ground:    strings.TrimSpace(item.Ground),
		HomeName:  strings.TrimSpace(item.HomeTeam.Name),
		AwayName:  strings.TrimSpace(item.AwayTeam.Name),
	}
	if item.Score != nil {
		out.HomeScore = item.Score.Home
		out.AwayScore = item.Score.Away
	}
	return out
}

func numberToInt(n json.Number) int {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return int(v)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}
