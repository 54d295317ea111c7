package progress

import (
	"fmt"
	"math"
	"time"

	"example.com/fitgptstudio/internal/domain"
)

// BenchPressExercise is the lift highlighted on the dashboard.
const BenchPressExercise = "ベンチプレス"

// RecentLimit caps the workout list.
const RecentLimit = 6

// Tone marks whether a displayed change is good news.
type Tone string

const (
	ToneFavorable   Tone = "favorable"
	ToneUnfavorable Tone = "unfavorable"
)

// WeightTone treats any increase as unfavorable.
func WeightTone(delta float64) Tone {
	if delta > 0 {
		return ToneUnfavorable
	}
	return ToneFavorable
}

// BodyFatTone treats any increase as unfavorable.
func BodyFatTone(delta float64) Tone {
	return WeightTone(delta)
}

// MuscleMassTone treats only an increase as favorable.
func MuscleMassTone(delta float64) Tone {
	if delta > 0 {
		return ToneFavorable
	}
	return ToneUnfavorable
}

// FormatDelta renders a change with one decimal and an explicit plus sign.
func FormatDelta(delta float64) string {
	if delta > 0 {
		return fmt.Sprintf("+%.1f", delta)
	}
	return fmt.Sprintf("%.1f", delta)
}

// Change is a delta ready for display.
type Change struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
	Tone  Tone    `json:"tone"`
}

func newChange(delta float64, tone func(float64) Tone) Change {
	return Change{Value: delta, Text: FormatDelta(delta), Tone: tone(delta)}
}

// PeriodLabel is the display name of a window.
func PeriodLabel(p domain.Period) string {
	switch p {
	case domain.PeriodWeek:
		return "1週間"
	case domain.PeriodMonth:
		return "1ヶ月"
	}
	return "1年"
}

func periodSpan(p domain.Period) string {
	switch p {
	case domain.PeriodWeek:
		return "1週間"
	case domain.PeriodMonth:
		return "1ヶ月間"
	}
	return "1年間"
}

// WorkoutEntry joins a record with its category badge.
type WorkoutEntry struct {
	domain.WorkoutRecord
	Badge domain.ExerciseCategory `json:"badge"`
}

// Input is everything the dashboard is derived from.
type Input struct {
	Workouts   []domain.WorkoutRecord
	Samples    []domain.BodyMetricSample
	Categories []domain.ExerciseCategory
	Period     domain.Period
	Now        time.Time
}

// Dashboard holds every figure of the progress page for one period.
type Dashboard struct {
	Period           domain.Period           `json:"period"`
	PeriodLabel      string                  `json:"period_label"`
	TotalWorkouts    int                     `json:"total_workouts"`
	BenchPressMaxKg  float64                 `json:"bench_press_max_kg"`
	Latest           domain.BodyMetricSample `json:"latest"`
	Delta            MetricDelta             `json:"delta"`
	WeightChange     Change                  `json:"weight_change"`
	BodyFatChange    Change                  `json:"body_fat_change"`
	MuscleMassChange Change                  `json:"muscle_mass_change"`
	Recent           []WorkoutEntry          `json:"recent"`
	Report           Report                  `json:"report"`
}

// Build derives the dashboard.
func Build(in Input) Dashboard {
	latest, delta := LatestAndDelta(in.Samples)
	d := Dashboard{
		Period:           in.Period,
		PeriodLabel:      PeriodLabel(in.Period),
		TotalWorkouts:    CountInPeriod(in.Workouts, in.Period, in.Now),
		BenchPressMaxKg:  MaxWeight(in.Workouts, BenchPressExercise),
		Latest:           latest,
		Delta:            delta,
		WeightChange:     newChange(delta.WeightKg, WeightTone),
		BodyFatChange:    newChange(delta.BodyFatPct, BodyFatTone),
		MuscleMassChange: newChange(delta.MuscleMassKg, MuscleMassTone),
	}

	badges := make(map[string]domain.ExerciseCategory, len(in.Categories))
	for _, c := range in.Categories {
		badges[c.ID] = c
	}
	for _, r := range Recent(in.Workouts, RecentLimit) {
		badge, ok := badges[r.Category]
		if !ok {
			badge = domain.ExerciseCategory{ID: r.Category, Badge: "badge-gray", Icon: "💪"}
		}
		d.Recent = append(d.Recent, WorkoutEntry{WorkoutRecord: r, Badge: badge})
	}

	d.Report = buildReport(d)
	return d
}

// Report is the canned analysis paragraph.
type Report struct {
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

func buildReport(d Dashboard) Report {
	fatTrend := "減少"
	if d.Delta.BodyFatPct > 0 {
		fatTrend = "増加"
	}
	muscleTrend := "維持"
	if d.Delta.MuscleMassKg > 0 {
		muscleTrend = "増加"
	}
	return Report{
		Summary: fmt.Sprintf(
			"素晴らしい進歩です！💪 過去%sで%d回のワークアウトを完了し、体脂肪率が%.1f%%%sしています。筋肉量も%sされており、理想的なボディメイクが進んでいます。",
			periodSpan(d.Period), d.TotalWorkouts, math.Abs(d.Delta.BodyFatPct), fatTrend, muscleTrend,
		),
		Recommendation: "ベンチプレスの重量を2.5kg増やし、有酸素運動を週2回に増やすことで、さらなる体脂肪減少が期待できます。",
	}
}
