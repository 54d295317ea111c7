// Package domain defines the records shown by the FitGPT Studio pages.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidContent indicates a content record violates its invariants.
	ErrInvalidContent = errors.New("invalid content item")
)

// Difficulty is the closed set of training levels.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d belongs to the closed enum.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// SortKey selects the ordering of a catalog view.
type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortPopular SortKey = "popular"
	SortRating  SortKey = "rating"
)

// CategoryAll matches every category.
const CategoryAll = "all"

// MaxRating is the upper bound of ContentItem.Rating.
const MaxRating = 5.0

// ContentItem is a video or live-stream record.
type ContentItem struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Duration    string     `json:"duration" yaml:"duration"`
	Popularity  int64      `json:"popularity" yaml:"popularity"`
	Rating      float64    `json:"rating" yaml:"rating"`
	Thumbnail   string     `json:"thumbnail" yaml:"thumbnail"`
	Category    string     `json:"category" yaml:"category"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	Owner       string     `json:"owner" yaml:"owner"`
	Timestamp   time.Time  `json:"timestamp,omitempty" yaml:"-"`
	Featured    bool       `json:"featured,omitempty" yaml:"featured"`
	Live        bool       `json:"live,omitempty" yaml:"live"`
}

// Scheduled reports whether the item carries a start or upload time.
func (c ContentItem) Scheduled() bool {
	return !c.Timestamp.IsZero()
}

// Validate checks the record invariants.
func (c ContentItem) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidContent)
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("%w: %s: unknown difficulty %q", ErrInvalidContent, c.ID, c.Difficulty)
	}
	if c.Rating < 0 || c.Rating > MaxRating {
		return fmt.Errorf("%w: %s: rating %.1f out of range", ErrInvalidContent, c.ID, c.Rating)
	}
	if c.Popularity < 0 {
		return fmt.Errorf("%w: %s: negative popularity", ErrInvalidContent, c.ID)
	}
	return nil
}

// Category describes a catalog tab.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}
