// Package progress computes the figures shown on the progress dashboard.
package progress

import (
	"time"

	"example.com/fitgptstudio/internal/domain"
)

// WindowStart returns the inclusive lower bound of the period anchored at
// now. Anything other than week or month selects a one-year window.
func WindowStart(period domain.Period, now time.Time) time.Time {
	switch period {
	case domain.PeriodWeek:
		return now.AddDate(0, 0, -7)
	case domain.PeriodMonth:
		return now.AddDate(0, -1, 0)
	}
	return now.AddDate(-1, 0, 0)
}

// CountInPeriod counts records dated on or after the window start.
func CountInPeriod(records []domain.WorkoutRecord, period domain.Period, now time.Time) int {
	start := WindowStart(period, now)
	n := 0
	for _, r := range records {
		if !r.Date.Before(start) {
			n++
		}
	}
	return n
}

// MaxWeight returns the heaviest weight logged for the exact exercise name,
// or 0 when nothing matches.
func MaxWeight(records []domain.WorkoutRecord, exercise string) float64 {
	var best float64
	found := false
	for _, r := range records {
		if r.Exercise != exercise {
			continue
		}
		if !found || r.WeightKg > best {
			best = r.WeightKg
			found = true
		}
	}
	return best
}

// MetricDelta is the change between the two most recent samples.
type MetricDelta struct {
	WeightKg     float64 `json:"weight_kg"`
	BodyFatPct   float64 `json:"body_fat_pct"`
	MuscleMassKg float64 `json:"muscle_mass_kg"`
}

// LatestAndDelta treats the first sample as the latest; callers keep the
// samples in date-descending order. Fewer than two samples yield a zero
// delta and no samples a zero-valued latest record.
func LatestAndDelta(samples []domain.BodyMetricSample) (domain.BodyMetricSample, MetricDelta) {
	if len(samples) == 0 {
		return domain.BodyMetricSample{}, MetricDelta{}
	}
	latest := samples[0]
	if len(samples) < 2 {
		return latest, MetricDelta{}
	}
	previous := samples[1]
	return latest, MetricDelta{
		WeightKg:     latest.WeightKg - previous.WeightKg,
		BodyFatPct:   latest.BodyFatPct - previous.BodyFatPct,
		MuscleMassKg: latest.MuscleMassKg - previous.MuscleMassKg,
	}
}

// Recent returns at most n records from the head of the list.
func Recent(records []domain.WorkoutRecord, n int) []domain.WorkoutRecord {
	if n < 0 {
		n = 0
	}
	if len(records) > n {
		records = records[:n]
	}
	out := make([]domain.WorkoutRecord, len(records))
	copy(out, records)
	return out
}
