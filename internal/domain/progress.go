package domain

import "time"

// Period is a named lookback window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Periods lists the selectable windows in display order.
var Periods = []Period{PeriodWeek, PeriodMonth, PeriodYear}

// WorkoutRecord is one logged exercise entry.
type WorkoutRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Date        time.Time `json:"date" yaml:"date"`
	Exercise    string    `json:"exercise" yaml:"exercise"`
	Sets        int       `json:"sets" yaml:"sets"`
	Reps        int       `json:"reps" yaml:"reps"`
	WeightKg    float64   `json:"weight_kg" yaml:"weight_kg"`
	DurationMin int       `json:"duration_min,omitempty" yaml:"duration_min"`
	Category    string    `json:"category" yaml:"category"`
}

// IsTimed reports whether the duration, not sets and reps, is the payload.
func (w WorkoutRecord) IsTimed() bool {
	return w.DurationMin > 0
}

// ExerciseCategory labels a body region (or cardio) on the workout list.
type ExerciseCategory struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Badge string `json:"badge" yaml:"badge"`
	Icon  string `json:"icon" yaml:"icon"`
}

// BodyMetricSample is a point-in-time body composition measurement.
type BodyMetricSample struct {
	Date         time.Time `json:"date" yaml:"date"`
	WeightKg     float64   `json:"weight_kg" yaml:"weight_kg"`
	BodyFatPct   float64   `json:"body_fat_pct" yaml:"body_fat_pct"`
	MuscleMassKg float64   `json:"muscle_mass_kg" yaml:"muscle_mass_kg"`
}
