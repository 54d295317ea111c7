package catalog

import (
	"fmt"
	"time"

	"example.com/fitgptstudio/internal/domain"
)

// LiveNow returns the streams currently on air.
func LiveNow(items []domain.ContentItem) []domain.ContentItem {
	out := make([]domain.ContentItem, 0)
	for _, item := range items {
		if item.Live {
			out = append(out, item)
		}
	}
	return out
}

// Upcoming returns the streams that are not live but have a scheduled start.
func Upcoming(items []domain.ContentItem) []domain.ContentItem {
	out := make([]domain.ContentItem, 0)
	for _, item := range items {
		if !item.Live && item.Scheduled() {
			out = append(out, item)
		}
	}
	return out
}

// Countdown pairs an upcoming stream with its rendered start offset.
type Countdown struct {
	Item     domain.ContentItem `json:"item"`
	StartsIn string             `json:"starts_in"`
}

// Countdowns renders TimeUntilStart for every upcoming stream.
func Countdowns(items []domain.ContentItem, now time.Time) []Countdown {
	upcoming := Upcoming(items)
	out := make([]Countdown, 0, len(upcoming))
	for _, item := range upcoming {
		out = append(out, Countdown{Item: item, StartsIn: TimeUntilStart(item.Timestamp, now)})
	}
	return out
}

// TimeUntilStart formats the remaining time as whole hours and minutes.
// A start time in the past renders as zero.
func TimeUntilStart(scheduled, now time.Time) string {
	diff := max(scheduled.Sub(now), 0)
	hours := int64(diff / time.Hour)
	minutes := int64((diff % time.Hour) / time.Minute)
	return fmt.Sprintf("%d時間%d分後", hours, minutes)
}
