// Package badge maps team names to crest image URLs. The id table is
// maintained by hand; it is not derivable from the fixtures API.
package badge

import (
	"strings"

	"github.com/andryanduta/prem-insights/internal/domain/teamstat"
)

const (
	urlTemplate = "https://resources.premierleague.com/premierleague25/badges/%ID%.svg"
	// PlaceholderURL is served for teams missing from the table. An unknown
	// team must never silently wear another club's crest.
	PlaceholderURL = "https://resources.premierleague.com/premierleague25/badges/placeholder.svg"
)

// idByKey is keyed by normalized team name so display-name variants
// ("Spurs", "Tottenham Hotspur") resolve to the same id.
var idByKey = map[string]string{
	"arsenal":                 "1",
	"astonvilla":              "2",
	"bournemouth":             "91",
	"afcbournemouth":          "91",
	"brentford":               "94",
	"brightonhovealbion":      "36",
	"brighton":                "36",
	"chelsea":                 "4",
	"crystalpalace":           "31",
	"everton":                 "7",
	"fulham":                  "34",
	"ipswichtown":             "40",
	"leicestercity":           "13",
	"liverpool":               "10",
	"manchestercity":          "11",
	"mancity":                 "11",
	"manchesterunited":        "12",
	"manunited":               "12",
	"manutd":                  "12",
	"newcastleunited":         "23",
	"nottinghamforest":        "17",
	"southampton":             "20",
	"tottenhamhotspur":        "21",
	"tottenham":               "21",
	"spurs":                   "21",
	"westhamunited":           "25",
	"westham":                 "25",
	"wolverhamptonwanderers":  "38",
	"wolves":                  "38",
}

// URL resolves a crest URL for a display name. The second return reports
// whether the team was recognized; callers log misses.
func URL(teamName string) (string, bool) {
	id, ok := idByKey[teamstat.NormalizeName(teamName)]
	if !ok {
		return PlaceholderURL, false
	}
	return strings.Replace(urlTemplate, "%ID%", id, 1), true
}
