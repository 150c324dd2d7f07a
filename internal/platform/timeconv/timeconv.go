// Package timeconv converts upstream kickoff timestamps into the display
// timezone. The upstream API labels kickoffs UTC but they arrive one hour
// ahead of the true value, so a fixed subtractive correction is applied
// before the zone conversion.
package timeconv

import (
	"fmt"
	"strings"
	"time"
)

const displayLayout = "2006-01-02 15:04 MST"

// Placeholder is shown for kickoffs that never parsed.
const Placeholder = "TBD"

// kickoffLayouts covers the timestamp shapes the upstream emits; some
// endpoints drop the seconds component.
var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
}

type Converter struct {
	correction time.Duration
	zone       *time.Location
}

// NewConverter builds a converter for the named zone. correction is the
// duration subtracted from every kickoff before conversion.
func NewConverter(zoneName string, correction time.Duration) (*Converter, error) {
	zone, err := time.LoadLocation(strings.TrimSpace(zoneName))
	if err != nil {
		return nil, fmt.Errorf("load display timezone %q: %w", zoneName, err)
	}
	return &Converter{correction: correction, zone: zone}, nil
}

// Format renders a kickoff in the display zone. A nil kickoff degrades to
// the placeholder, never an error.
func (c *Converter) Format(kickoff *time.Time) string {
	if kickoff == nil || kickoff.IsZero() {
		return Placeholder
	}
	return kickoff.Add(-c.correction).In(c.zone).Format(displayLayout)
}

// ParseKickoff parses an upstream kickoff string. Unparsable values yield
// nil rather than an error so a bad row never aborts a fixture load.
func ParseKickoff(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range kickoffLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
