package catalog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitgptstudio/internal/catalog"
	"example.com/fitgptstudio/internal/domain"
	"example.com/fitgptstudio/internal/knowledge"
)

func seedVideos(t *testing.T) []domain.ContentItem {
	t.Helper()
	repo, err := knowledge.NewInMemoryRepository(time.Now())
	require.NoError(t, err)
	return repo.Videos()
}

func ids(items []domain.ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestViewCategoryFilter(t *testing.T) {
	videos := seedVideos(t)

	all := catalog.View(videos, catalog.Query{Category: domain.CategoryAll})
	require.ElementsMatch(t, ids(videos), ids(all))

	for _, category := range []string{"hiit", "strength", "cardio", "yoga", "stretch", "nutrition"} {
		for _, item := range catalog.View(videos, catalog.Query{Category: category, Sort: domain.SortRating}) {
			require.Equal(t, category, item.Category)
		}
	}

	hiit := catalog.View(videos, catalog.Query{Category: "hiit"})
	require.Len(t, hiit, 1)
	require.Equal(t, "1", hiit[0].ID)

	require.Empty(t, catalog.View(videos, catalog.Query{Category: "stretch"}))
}

func TestViewSearchMatchesAnyField(t *testing.T) {
	videos := seedVideos(t)

	yoga := catalog.View(videos, catalog.Query{Category: domain.CategoryAll, Search: "ヨガ"})
	require.Equal(t, []string{"3"}, ids(yoga))
	require.Equal(t, "yoga", yoga[0].Category)

	byOwner := catalog.View(videos, catalog.Query{Search: "栄養士"})
	require.Equal(t, []string{"6"}, ids(byOwner))

	byDescription := catalog.View(videos, catalog.Query{Search: "ダンベル"})
	require.Equal(t, []string{"2"}, ids(byDescription))

	for _, needle := range []string{"hiit", "HIIT", "HiIt"} {
		got := catalog.View(videos, catalog.Query{Search: needle})
		require.Equal(t, []string{"1"}, ids(got), needle)
	}

	for _, item := range catalog.View(videos, catalog.Query{Search: "トレーニング"}) {
		hay := strings.ToLower(item.Title + "\x00" + item.Description + "\x00" + item.Owner)
		require.Contains(t, hay, "トレーニング")
	}

	require.Empty(t, catalog.View(videos, catalog.Query{Search: "pilates"}))
	require.Len(t, catalog.View(videos, catalog.Query{Search: ""}), len(videos))
}

func TestViewSortNewest(t *testing.T) {
	got := catalog.View(seedVideos(t), catalog.DefaultQuery())
	require.Len(t, got, 6)
	for i := 1; i < len(got); i++ {
		require.False(t, got[i-1].Timestamp.Before(got[i].Timestamp))
	}
	require.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(got))
}

func TestViewSortPopular(t *testing.T) {
	got := catalog.View(seedVideos(t), catalog.Query{Sort: domain.SortPopular})
	require.Equal(t, "4", got[0].ID)
	require.EqualValues(t, 156000, got[0].Popularity)
	require.Equal(t, []string{"4", "1", "2", "3", "5", "6"}, ids(got))
}

func TestViewSortRatingIsStable(t *testing.T) {
	// 4.9 ties (2, 6) and 4.8 ties (1, 4) keep seed order.
	got := catalog.View(seedVideos(t), catalog.Query{Sort: domain.SortRating})
	require.Equal(t, []string{"2", "6", "1", "4", "3", "5"}, ids(got))
}

func TestViewUnknownSortKeepsOrder(t *testing.T) {
	videos := seedVideos(t)
	got := catalog.View(videos, catalog.Query{Sort: "alphabetical"})
	require.Equal(t, ids(videos), ids(got))
}

func TestViewDoesNotMutateInput(t *testing.T) {
	videos := seedVideos(t)
	before := ids(videos)
	_ = catalog.View(videos, catalog.Query{Sort: domain.SortPopular})
	require.Equal(t, before, ids(videos))
}

func TestFeaturedIgnoresQuery(t *testing.T) {
	videos := seedVideos(t)
	featured := catalog.Featured(videos)
	require.Equal(t, []string{"1", "2"}, ids(featured))
	require.Empty(t, catalog.Featured(nil))
}
