package teamstat

import (
	"math"
	"strings"
)

// TeamStat is one team's season stat row with its derived shot-quality
// metric. Rows are immutable values rebuilt on every stats fetch.
type TeamStat struct {
	Name    string
	Key     string
	Metric  *float64
	Percent *float64
}

// NormalizeName canonicalizes a display name into the join key: lowercase
// with everything outside [a-z0-9] stripped. Distinct teams that collide
// after normalization are indistinguishable; that is accepted.
func NormalizeName(name string) string {
	lowered := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ShotQuality derives the metric: shots on target (incl. goals) over the sum
// of that quantity and shots conceded inside/outside the box. Nil when the
// denominator is zero.
func ShotQuality(onTargetIncGoals, concededInsideBox, concededOutsideBox float64) *float64 {
	denom := onTargetIncGoals + concededInsideBox + concededOutsideBox
	if denom <= 0 {
		return nil
	}
	metric := onTargetIncGoals / denom
	return &metric
}

// New builds a TeamStat from raw counts, filling key, metric and percent.
func New(name string, onTargetIncGoals, concededInsideBox, concededOutsideBox float64) TeamStat {
	stat := TeamStat{
		Name: name,
		Key:  NormalizeName(name),
	}
	stat.Metric = ShotQuality(onTargetIncGoals, concededInsideBox, concededOutsideBox)
	if stat.Metric != nil {
		pct := Round2(*stat.Metric * 100)
		stat.Percent = &pct
	}
	return stat
}

// Dedupe drops rows whose key normalized to empty and collapses duplicate
// keys keeping the first occurrence. Arrival order is preserved.
func Dedupe(stats []TeamStat) []TeamStat {
	out := make([]TeamStat, 0, len(stats))
	seen := make(map[string]struct{}, len(stats))
	for _, stat := range stats {
		if stat.Key == "" {
			continue
		}
		if _, dup := seen[stat.Key]; dup {
			continue
		}
		seen[stat.Key] = struct{}{}
		out = append(out, stat)
	}
	return out
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
