// Package knowledge holds the static seed data served by every page.
package knowledge

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/fitgptstudio/internal/domain"
)

//go:embed seed.yaml
var embeddedSeed []byte

// ErrInvalidSeed indicates the seed document violates a record invariant.
var ErrInvalidSeed = errors.New("invalid seed data")

type videoRecord struct {
	domain.ContentItem `yaml:",inline"`
	UploadDate         time.Time `yaml:"upload_date"`
}

type streamRecord struct {
	domain.ContentItem `yaml:",inline"`
	StartsIn           string `yaml:"starts_in"`
}

type chatSeed struct {
	Greeting     string               `yaml:"greeting"`
	Replies      []string             `yaml:"replies"`
	QuickPrompts []domain.QuickPrompt `yaml:"quick_prompts"`
}

type seedDocument struct {
	Categories         []domain.Category         `yaml:"categories"`
	Videos             []videoRecord             `yaml:"videos"`
	Streams            []streamRecord            `yaml:"streams"`
	PastStreams        []streamRecord            `yaml:"past_streams"`
	Workouts           []domain.WorkoutRecord    `yaml:"workouts"`
	BodyMetrics        []domain.BodyMetricSample `yaml:"body_metrics"`
	ExerciseCategories []domain.ExerciseCategory `yaml:"exercise_categories"`
	Chat               chatSeed                  `yaml:"chat"`
}

// InMemoryRepository exposes the immutable seed collections. Accessors
// return copies so callers cannot mutate shared state.
type InMemoryRepository struct {
	categories         []domain.Category
	videos             []domain.ContentItem
	streams            []domain.ContentItem
	pastStreams        []domain.ContentItem
	workouts           []domain.WorkoutRecord
	bodyMetrics        []domain.BodyMetricSample
	exerciseCategories []domain.ExerciseCategory
	greeting           string
	replies            []string
	quickPrompts       []domain.QuickPrompt
}

// NewInMemoryRepository loads the embedded seed. Relative stream start
// times are resolved against now.
func NewInMemoryRepository(now time.Time) (*InMemoryRepository, error) {
	return Load(embeddedSeed, now)
}

// LoadFile reads a seed document from disk.
func LoadFile(path string, now time.Time) (*InMemoryRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Load(data, now)
}

// Load parses and validates a seed document.
func Load(data []byte, now time.Time) (*InMemoryRepository, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	repo := &InMemoryRepository{
		categories:         doc.Categories,
		workouts:           doc.Workouts,
		bodyMetrics:        doc.BodyMetrics,
		exerciseCategories: doc.ExerciseCategories,
		greeting:           doc.Chat.Greeting,
		replies:            doc.Chat.Replies,
		quickPrompts:       doc.Chat.QuickPrompts,
	}

	for _, v := range doc.Videos {
		item := v.ContentItem
		item.Timestamp = v.UploadDate
		repo.videos = append(repo.videos, item)
	}
	var err error
	if repo.streams, err = resolveStreams(doc.Streams, now); err != nil {
		return nil, err
	}
	if repo.pastStreams, err = resolveStreams(doc.PastStreams, now); err != nil {
		return nil, err
	}

	if err := repo.validate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func resolveStreams(records []streamRecord, now time.Time) ([]domain.ContentItem, error) {
	out := make([]domain.ContentItem, 0, len(records))
	for _, r := range records {
		item := r.ContentItem
		if strings.TrimSpace(r.StartsIn) != "" {
			offset, err := time.ParseDuration(r.StartsIn)
			if err != nil {
				return nil, fmt.Errorf("%w: stream %s: starts_in: %v", ErrInvalidSeed, item.ID, err)
			}
			item.Timestamp = now.Add(offset)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *InMemoryRepository) validate() error {
	for name, list := range map[string][]domain.ContentItem{
		"videos":       r.videos,
		"streams":      r.streams,
		"past_streams": r.pastStreams,
	} {
		if err := validateContent(list); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSeed, name, err)
		}
	}
	for _, w := range r.workouts {
		if w.WeightKg < 0 {
			return fmt.Errorf("%w: workout %s: negative weight", ErrInvalidSeed, w.ID)
		}
	}
	if len(r.replies) == 0 {
		return fmt.Errorf("%w: chat replies are empty", ErrInvalidSeed)
	}
	return nil
}

func validateContent(items []domain.ContentItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate id %s", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// Categories returns the archive tabs, "all" first.
func (r *InMemoryRepository) Categories() []domain.Category {
	return slices.Clone(r.categories)
}

// Videos returns the archive videos in seed order.
func (r *InMemoryRepository) Videos() []domain.ContentItem {
	return slices.Clone(r.videos)
}

// LiveStreams returns the live and scheduled streams.
func (r *InMemoryRepository) LiveStreams() []domain.ContentItem {
	return slices.Clone(r.streams)
}

// PastStreams returns finished streams.
func (r *InMemoryRepository) PastStreams() []domain.ContentItem {
	return slices.Clone(r.pastStreams)
}

// Workouts returns workout logs, most recent first.
func (r *InMemoryRepository) Workouts() []domain.WorkoutRecord {
	return slices.Clone(r.workouts)
}

// BodyMetrics returns body composition samples, most recent first.
func (r *InMemoryRepository) BodyMetrics() []domain.BodyMetricSample {
	return slices.Clone(r.bodyMetrics)
}

// ExerciseCategories returns the workout category badges.
func (r *InMemoryRepository) ExerciseCategories() []domain.ExerciseCategory {
	return slices.Clone(r.exerciseCategories)
}

// Greeting is the assistant's opening message.
func (r *InMemoryRepository) Greeting() string { return r.greeting }

// Replies returns the canned assistant replies.
func (r *InMemoryRepository) Replies() []string {
	return slices.Clone(r.replies)
}

// QuickPrompts returns the chat shortcuts.
func (r *InMemoryRepository) QuickPrompts() []domain.QuickPrompt {
	return slices.Clone(r.quickPrompts)
}
