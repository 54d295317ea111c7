package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitgptstudio/internal/domain"
)

func TestLivePartitions(t *testing.T) {
	now := time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)
	streams := []domain.ContentItem{
		{ID: "1", Live: true},
		{ID: "2", Timestamp: now.Add(2 * time.Hour)},
		{ID: "3", Timestamp: now.Add(4 * time.Hour)},
		{ID: "4"},
	}

	live := LiveNow(streams)
	require.Len(t, live, 1)
	require.Equal(t, "1", live[0].ID)

	upcoming := Upcoming(streams)
	require.Len(t, upcoming, 2)
	require.Equal(t, "2", upcoming[0].ID)
	require.Equal(t, "3", upcoming[1].ID)

	countdowns := Countdowns(streams, now.Add(-30*time.Minute))
	require.Equal(t, "2時間30分後", countdowns[0].StartsIn)
	require.Equal(t, "4時間30分後", countdowns[1].StartsIn)
}

func TestTimeUntilStart(t *testing.T) {
	now := time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)
	require.Equal(t, "2時間0分後", TimeUntilStart(now.Add(2*time.Hour), now))
	require.Equal(t, "1時間59分後", TimeUntilStart(now.Add(2*time.Hour), now.Add(time.Second)))
	require.Equal(t, "0時間5分後", TimeUntilStart(now.Add(5*time.Minute+30*time.Second), now))
	require.Equal(t, "0時間0分後", TimeUntilStart(now.Add(-time.Hour), now))
}

func TestFormatters(t *testing.T) {
	require.Equal(t, "156.0K", FormatPopularity(156000))
	require.Equal(t, "1.3M", FormatPopularity(1_300_000))
	require.Equal(t, "999", FormatPopularity(999))

	require.Equal(t, "1,250", FormatViewers(1250))
	require.Equal(t, "0", FormatViewers(0))
	require.Equal(t, "123,456,789", FormatViewers(123456789))
	require.Equal(t, "-2,100", FormatViewers(-2100))

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "今日", FormatUploadAge(now.Add(-time.Hour), now))
	require.Equal(t, "昨日", FormatUploadAge(now.AddDate(0, 0, -1), now))
	require.Equal(t, "3日前", FormatUploadAge(now.AddDate(0, 0, -3), now))
	require.Equal(t, "2週間前", FormatUploadAge(now.AddDate(0, 0, -14), now))
	require.Equal(t, "2ヶ月前", FormatUploadAge(now.AddDate(0, 0, -60), now))

	require.Equal(t, "初級", DifficultyLabel(domain.DifficultyBeginner))
	require.Equal(t, "上級", DifficultyLabel(domain.DifficultyAdvanced))
	require.Equal(t, "", DifficultyLabel("unknown"))
	require.Equal(t, "badge-yellow", DifficultyBadge(domain.DifficultyIntermediate))
	require.Equal(t, "badge-gray", DifficultyBadge("unknown"))
}
