// Package studio assembles page data from the seed repository and the chat
// sessions.
package studio

import (
	"net/url"
	"strings"
	"time"

	"example.com/fitgptstudio/internal/catalog"
	"example.com/fitgptstudio/internal/chat"
	"example.com/fitgptstudio/internal/domain"
	"example.com/fitgptstudio/internal/progress"
)

// Repository captures the seed collections the pages read.
type Repository interface {
	Categories() []domain.Category
	Videos() []domain.ContentItem
	LiveStreams() []domain.ContentItem
	PastStreams() []domain.ContentItem
	Workouts() []domain.WorkoutRecord
	BodyMetrics() []domain.BodyMetricSample
	ExerciseCategories() []domain.ExerciseCategory
	QuickPrompts() []domain.QuickPrompt
}

// Service answers page queries.
type Service struct {
	repo     Repository
	sessions *chat.Sessions
	now      func() time.Time
}

// NewService constructs a Service. A nil clock selects time.Now.
func NewService(repo Repository, sessions *chat.Sessions, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, sessions: sessions, now: clock}
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// ParseQuery reads category, q and sort. An absent sort selects fallback.
func ParseQuery(values url.Values, fallback domain.SortKey) catalog.Query {
	q := catalog.Query{
		Category: strings.TrimSpace(values.Get("category")),
		Search:   strings.TrimSpace(values.Get("q")),
		Sort:     domain.SortKey(strings.TrimSpace(values.Get("sort"))),
	}
	if q.Category == "" {
		q.Category = domain.CategoryAll
	}
	if q.Sort == "" {
		q.Sort = fallback
	}
	return q
}

// ParsePeriod maps the period parameter; anything unrecognised is a month.
func ParsePeriod(value string) domain.Period {
	switch p := domain.Period(strings.TrimSpace(value)); p {
	case domain.PeriodWeek, domain.PeriodMonth, domain.PeriodYear:
		return p
	}
	return domain.PeriodMonth
}

// Categories returns the archive tabs.
func (s *Service) Categories() []domain.Category {
	return s.repo.Categories()
}

// ArchiveView is the archive page model.
type ArchiveView struct {
	Query    catalog.Query        `json:"-"`
	Items    []domain.ContentItem `json:"items"`
	Total    int                  `json:"total"`
	Featured []domain.ContentItem `json:"-"`
}

// Archive filters and orders the video catalog.
func (s *Service) Archive(q catalog.Query) ArchiveView {
	videos := s.repo.Videos()
	items := catalog.View(videos, q)
	return ArchiveView{
		Query:    q,
		Items:    items,
		Total:    len(items),
		Featured: catalog.Featured(videos),
	}
}

// Featured returns the highlighted videos.
func (s *Service) Featured() []domain.ContentItem {
	return catalog.Featured(s.repo.Videos())
}

// LiveView is the live page model.
type LiveView struct {
	Live     []domain.ContentItem `json:"live"`
	Upcoming []catalog.Countdown  `json:"upcoming"`
	Past     []domain.ContentItem `json:"past"`
}

// Live partitions the streams matching q.
func (s *Service) Live(q catalog.Query) LiveView {
	streams := catalog.View(s.repo.LiveStreams(), q)
	return LiveView{
		Live:     catalog.LiveNow(streams),
		Upcoming: catalog.Countdowns(streams, s.now()),
		Past:     catalog.View(s.repo.PastStreams(), q),
	}
}

// ClockFrame is pushed to live page subscribers.
type ClockFrame struct {
	Now      time.Time           `json:"now"`
	Upcoming []catalog.Countdown `json:"upcoming"`
}

// Clock renders the countdowns at now.
func (s *Service) Clock(now time.Time) ClockFrame {
	return ClockFrame{Now: now, Upcoming: catalog.Countdowns(s.repo.LiveStreams(), now)}
}

// Progress builds the dashboard for period.
func (s *Service) Progress(period domain.Period) progress.Dashboard {
	return progress.Build(progress.Input{
		Workouts:   s.repo.Workouts(),
		Samples:    s.repo.BodyMetrics(),
		Categories: s.repo.ExerciseCategories(),
		Period:     period,
		Now:        s.now(),
	})
}

// QuickPrompts returns the chat shortcuts.
func (s *Service) QuickPrompts() []domain.QuickPrompt {
	return s.repo.QuickPrompts()
}

// Conversation returns the responder for sessionID, starting a new session
// when it is unknown. The returned id is authoritative.
func (s *Service) Conversation(sessionID string) (string, *chat.Responder) {
	return s.sessions.Acquire(sessionID)
}

// ExistingConversation never creates a session.
func (s *Service) ExistingConversation(sessionID string) (*chat.Responder, bool) {
	if sessionID == "" {
		return nil, false
	}
	return s.sessions.Lookup(sessionID)
}
