package catalog

import (
	"fmt"
	"strconv"
	"time"

	"example.com/fitgptstudio/internal/domain"
)

// FormatPopularity abbreviates view counts (1.2K, 3.4M).
func FormatPopularity(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatInt(n, 10)
}

// FormatViewers renders a count with thousands separators.
func FormatViewers(n int64) string {
	if n < 0 {
		return "-" + FormatViewers(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	out = append(out, s[:head]...)
	for i := head; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// FormatUploadAge renders how long ago t was, in whole days.
func FormatUploadAge(t, now time.Time) string {
	days := int(now.Sub(t) / (24 * time.Hour))
	switch {
	case days <= 0:
		return "今日"
	case days == 1:
		return "昨日"
	case days < 7:
		return fmt.Sprintf("%d日前", days)
	case days < 30:
		return fmt.Sprintf("%d週間前", days/7)
	}
	return fmt.Sprintf("%dヶ月前", days/30)
}

// DifficultyLabel is the display name of a level.
func DifficultyLabel(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyBeginner:
		return "初級"
	case domain.DifficultyIntermediate:
		return "中級"
	case domain.DifficultyAdvanced:
		return "上級"
	}
	return ""
}

// DifficultyBadge is the badge colour class of a level.
func DifficultyBadge(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyBeginner:
		return "badge-green"
	case domain.DifficultyIntermediate:
		return "badge-yellow"
	case domain.DifficultyAdvanced:
		return "badge-red"
	}
	return "badge-gray"
}
