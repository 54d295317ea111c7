// Package catalog derives the filtered and ordered views shown on the archive
// and live pages.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"example.com/fitgptstudio/internal/domain"
)

// Query is the view-state of a catalog page.
type Query struct {
	Category string
	Search   string
	Sort     domain.SortKey
}

// DefaultQuery matches everything, newest first.
func DefaultQuery() Query {
	return Query{Category: domain.CategoryAll, Sort: domain.SortNewest}
}

// View filters items by category and search text, then orders them by the
// sort key. Ties keep their input order. The input slice is not modified.
func View(items []domain.ContentItem, q Query) []domain.ContentItem {
	needle := strings.ToLower(q.Search)
	out := make([]domain.ContentItem, 0, len(items))
	for _, item := range items {
		if !matchesCategory(item, q.Category) {
			continue
		}
		if !matchesSearch(item, needle) {
			continue
		}
		out = append(out, item)
	}

	if compare := comparator(q.Sort); compare != nil {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// Featured returns the flagged items regardless of any active query.
func Featured(items []domain.ContentItem) []domain.ContentItem {
	out := make([]domain.ContentItem, 0)
	for _, item := range items {
		if item.Featured {
			out = append(out, item)
		}
	}
	return out
}

func matchesCategory(item domain.ContentItem, category string) bool {
	return category == "" || category == domain.CategoryAll || item.Category == category
}

// matchesSearch expects needle to be lower-cased already.
func matchesSearch(item domain.ContentItem, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Description), needle) ||
		strings.Contains(strings.ToLower(item.Owner), needle)
}

// comparator returns a descending comparison for the key, or nil when the
// key is unknown and the filtered order should stand.
func comparator(key domain.SortKey) func(a, b domain.ContentItem) int {
	switch key {
	case domain.SortNewest:
		return func(a, b domain.ContentItem) int { return b.Timestamp.Compare(a.Timestamp) }
	case domain.SortPopular:
		return func(a, b domain.ContentItem) int { return cmp.Compare(b.Popularity, a.Popularity) }
	case domain.SortRating:
		return func(a, b domain.ContentItem) int { return cmp.Compare(b.Rating, a.Rating) }
	}
	return nil
}
