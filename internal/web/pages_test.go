package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"example.com/fitgptstudio/internal/chat"
	"example.com/fitgptstudio/internal/knowledge"
	"example.com/fitgptstudio/internal/observability"
	"example.com/fitgptstudio/internal/session"
	"example.com/fitgptstudio/internal/studio"
)

var boot = time.Date(2024, time.January, 16, 9, 0, 0, 0, time.UTC)

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

type heldScheduler struct {
	mu  sync.Mutex
	fns []func()
}

func (s *heldScheduler) AfterFunc(_ time.Duration, f func()) chat.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, f)
	return heldTimer{}
}

func (s *heldScheduler) fireAll() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

func newRouter(t *testing.T) (http.Handler, *heldScheduler) {
	t.Helper()
	repo, err := knowledge.NewInMemoryRepository(boot)
	require.NoError(t, err)
	sched := &heldScheduler{}
	sessions, err := chat.NewSessions(chat.SessionsConfig{
		Responder: chat.Config{Greeting: repo.Greeting(), Replies: []string{"固定の返信です"}, Scheduler: sched},
	})
	require.NoError(t, err)
	service := studio.NewService(repo, sessions, func() time.Time { return boot.Add(time.Hour) })
	manager := session.NewManager(session.Config{Secret: "test", Issuer: "test", CookieName: "sid", TTL: time.Hour}, nil)

	pages, err := NewPages(service, manager, nil)
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Use(manager.Wrap)
	pages.RegisterRoutes(r)
	return r, sched
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHomePage(t *testing.T) {
	h, _ := newRouter(t)
	before := testutil.ToFloat64(observability.PageRenders("home"))

	rr := get(t, h, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rr.Body.String(), "AIパーソナルトレーナー")
	require.Contains(t, rr.Body.String(), `href="/progress"`)
	require.Equal(t, before+1, testutil.ToFloat64(observability.PageRenders("home")))
}

func TestArchivePage(t *testing.T) {
	h, _ := newRouter(t)

	body := get(t, h, "/archive?sort=popular").Body.String()
	require.Equal(t, 6, strings.Count(body, `class="card video"`))
	require.Less(t, strings.Index(body, `data-id="4"`), strings.Index(body, `data-id="1"`))
	require.Contains(t, body, "156.0K")
	require.Contains(t, body, "おすすめ動画")

	body = get(t, h, "/archive?"+url.Values{"q": {"ヨガ"}}.Encode()).Body.String()
	require.Equal(t, 1, strings.Count(body, `class="card video"`))
	require.Contains(t, body, `data-id="3"`)

	body = get(t, h, "/archive?category=dance").Body.String()
	require.Zero(t, strings.Count(body, `class="card video"`))
	require.Contains(t, body, "条件に一致する動画が見つかりませんでした")
}

func TestLivePage(t *testing.T) {
	h, _ := newRouter(t)
	body := get(t, h, "/live").Body.String()
	require.Contains(t, body, "1,250")
	require.Contains(t, body, "1時間0分後")
	require.Contains(t, body, "3時間0分後")
	require.Contains(t, body, "2,100")
}

func TestProgressPage(t *testing.T) {
	h, _ := newRouter(t)
	body := get(t, h, "/progress?period=week").Body.String()
	require.Contains(t, body, "<strong>6</strong>")
	require.Contains(t, body, "<strong>80.0</strong>")
	require.Contains(t, body, `<span class="favorable">-0.3 kg</span>`)
	require.Contains(t, body, "過去1週間で6回")
	require.Contains(t, body, "3セット × 10回 ・ 80.0kg")
}

func TestChatPostRedirectGet(t *testing.T) {
	h, sched := newRouter(t)

	rr := get(t, h, "/chat")
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Contains(t, rr.Body.String(), "こんにちは！私はあなた専用のAIパーソナルトレーナーです")
	require.Contains(t, rr.Body.String(), "今日のメニュー")

	form := url.Values{"message": {"スクワットのフォームを教えて"}}
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	post := httptest.NewRecorder()
	h.ServeHTTP(post, req)
	require.Equal(t, http.StatusSeeOther, post.Code)
	require.Equal(t, "/chat", post.Header().Get("Location"))

	body := get(t, h, "/chat", cookies[0]).Body.String()
	require.Contains(t, body, "スクワットのフォームを教えて")
	require.Contains(t, body, `id="typing"`)

	sched.fireAll()
	body = get(t, h, "/chat", cookies[0]).Body.String()
	require.Contains(t, body, "固定の返信です")
	require.NotContains(t, body, `id="typing"`)
}

func TestChatQuickPromptPrefillsInput(t *testing.T) {
	h, sched := newRouter(t)

	body := get(t, h, "/chat").Body.String()
	require.Contains(t, body, `href="/chat?draft=`)
	require.NotContains(t, body, `type="hidden"`)

	draft := "今日のおすすめワークアウトメニューを教えて"
	rr := get(t, h, "/chat?"+url.Values{"draft": {draft}}.Encode())
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `value="`+draft+`"`)

	sched.mu.Lock()
	defer sched.mu.Unlock()
	require.Empty(t, sched.fns, "prefilling must not submit")
}

func TestChatPageEmbedsRenderedState(t *testing.T) {
	h, _ := newRouter(t)
	rr := get(t, h, "/chat")
	body := rr.Body.String()
	require.Contains(t, body, `var renderedState = "idle";`)
	require.Contains(t, body, `frame.type === "snapshot"`)
}
