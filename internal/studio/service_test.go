package studio

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitgptstudio/internal/chat"
	"example.com/fitgptstudio/internal/domain"
	"example.com/fitgptstudio/internal/events"
	"example.com/fitgptstudio/internal/knowledge"
)

var boot = time.Date(2024, time.January, 16, 9, 0, 0, 0, time.UTC)

type manualTimer struct{ fn func() }

func (manualTimer) Stop() bool { return true }

type manualScheduler struct {
	mu     sync.Mutex
	timers []manualTimer
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) chat.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := manualTimer{fn: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()
	for _, t := range timers {
		t.fn()
	}
}

func newTestService(t *testing.T, setup chat.SetupFunc) (*Service, *manualScheduler) {
	t.Helper()
	repo, err := knowledge.NewInMemoryRepository(boot)
	require.NoError(t, err)
	sched := &manualScheduler{}
	sessions, err := chat.NewSessions(chat.SessionsConfig{
		Responder: chat.Config{Greeting: repo.Greeting(), Replies: repo.Replies(), Scheduler: sched},
		Setup:     setup,
	})
	require.NoError(t, err)
	return NewService(repo, sessions, func() time.Time { return boot.Add(30 * time.Minute) }), sched
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery(url.Values{}, domain.SortNewest)
	require.Equal(t, domain.CategoryAll, q.Category)
	require.Equal(t, domain.SortNewest, q.Sort)

	q = ParseQuery(url.Values{"category": {"yoga"}, "q": {" ヨガ "}, "sort": {"rating"}}, domain.SortNewest)
	require.Equal(t, "yoga", q.Category)
	require.Equal(t, "ヨガ", q.Search)
	require.Equal(t, domain.SortRating, q.Sort)
}

func TestParsePeriod(t *testing.T) {
	require.Equal(t, domain.PeriodWeek, ParsePeriod("week"))
	require.Equal(t, domain.PeriodYear, ParsePeriod("year"))
	require.Equal(t, domain.PeriodMonth, ParsePeriod(""))
	require.Equal(t, domain.PeriodMonth, ParsePeriod("fortnight"))
}

func TestArchive(t *testing.T) {
	svc, _ := newTestService(t, nil)

	view := svc.Archive(ParseQuery(url.Values{"sort": {"popular"}}, domain.SortNewest))
	require.Equal(t, 6, view.Total)
	require.Equal(t, "4", view.Items[0].ID)
	require.Len(t, view.Featured, 2)

	view = svc.Archive(ParseQuery(url.Values{"category": {"hiit"}}, domain.SortNewest))
	require.Equal(t, 1, view.Total)

	view = svc.Archive(ParseQuery(url.Values{"q": {"存在しない"}}, domain.SortNewest))
	require.Zero(t, view.Total)
	require.Empty(t, view.Items)
}

func TestLiveUsesServiceClock(t *testing.T) {
	svc, _ := newTestService(t, nil)

	view := svc.Live(ParseQuery(url.Values{}, ""))
	require.Len(t, view.Live, 1)
	require.Len(t, view.Upcoming, 2)
	require.Equal(t, "1時間30分後", view.Upcoming[0].StartsIn)
	require.Equal(t, "3時間30分後", view.Upcoming[1].StartsIn)
	require.Len(t, view.Past, 2)

	yoga := svc.Live(ParseQuery(url.Values{"category": {"yoga"}}, ""))
	require.Empty(t, yoga.Live)
	require.Len(t, yoga.Upcoming, 1)
	require.Empty(t, yoga.Past)

	frame := svc.Clock(boot.Add(time.Hour))
	require.Equal(t, "1時間0分後", frame.Upcoming[0].StartsIn)
}

func TestProgress(t *testing.T) {
	svc, _ := newTestService(t, nil)
	d := svc.Progress(domain.PeriodMonth)
	require.Equal(t, 80.0, d.BenchPressMaxKg)
	require.Equal(t, 7, d.TotalWorkouts)
}

type recordingBroadcaster struct {
	mu   sync.Mutex
	keys []string
}

func (b *recordingBroadcaster) Broadcast(key, _ string, _ any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys = append(b.keys, key)
	return 1
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ChatMessageAppended
}

func (p *recordingPublisher) Publish(evt events.ChatMessageAppended) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return true
}

func TestConversationFanout(t *testing.T) {
	hub := &recordingBroadcaster{}
	pub := &recordingPublisher{}
	svc, sched := newTestService(t, ChatFanout(hub, pub))

	id, r := svc.Conversation("")
	require.NotEmpty(t, id)
	require.True(t, r.Submit("栄養について教えて"))
	sched.fireAll()

	require.Equal(t, []string{id, id}, hub.keys)
	require.Len(t, pub.events, 2)
	require.Equal(t, "user", pub.events[0].Role)
	require.Equal(t, "assistant", pub.events[1].Role)
	require.Equal(t, id, pub.events[1].SessionID)

	existing, ok := svc.ExistingConversation(id)
	require.True(t, ok)
	require.Same(t, r, existing)
	_, ok = svc.ExistingConversation("")
	require.False(t, ok)
}
