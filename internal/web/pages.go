// Package web renders the studio pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"example.com/fitgptstudio/internal/catalog"
	"example.com/fitgptstudio/internal/chat"
	"example.com/fitgptstudio/internal/domain"
	"example.com/fitgptstudio/internal/observability"
	"example.com/fitgptstudio/internal/progress"
	"example.com/fitgptstudio/internal/session"
	"example.com/fitgptstudio/internal/studio"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageNames = []string{"home", "chat", "live", "archive", "progress"}

// Pages serves the HTML routes.
type Pages struct {
	service  *studio.Service
	sessions *session.Manager
	logger   *logrus.Entry
	pages    map[string]*template.Template
}

// NewPages parses every template up front.
func NewPages(service *studio.Service, sessions *session.Manager, logger *logrus.Entry) (*Pages, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	p := &Pages{service: service, sessions: sessions, logger: logger, pages: make(map[string]*template.Template)}
	for _, name := range pageNames {
		tpl, err := template.New("layout.tmpl").Funcs(funcs(service.Now)).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		p.pages[name] = tpl
	}
	return p, nil
}

// RegisterRoutes wires the pages to the router.
func (p *Pages) RegisterRoutes(r chi.Router) {
	r.Get("/", p.home)
	r.Get("/chat", p.chat)
	r.Post("/chat", p.submitChat)
	r.Get("/live", p.live)
	r.Get("/archive", p.archive)
	r.Get("/progress", p.progress)
}

func funcs(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"popularity":      catalog.FormatPopularity,
		"viewers":         catalog.FormatViewers,
		"difficultyLabel": catalog.DifficultyLabel,
		"difficultyBadge": catalog.DifficultyBadge,
		"uploadAge": func(t time.Time) string {
			return catalog.FormatUploadAge(t, now())
		},
		"clock": func(t time.Time) string {
			return t.Local().Format("15:04")
		},
		"kg": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
		"periodLabel": progress.PeriodLabel,
	}
}

type layoutData struct {
	Title  string
	Active string
	Body   any
}

func (p *Pages) render(w http.ResponseWriter, name, title string, body any) {
	var buf bytes.Buffer
	if err := p.pages[name].Execute(&buf, layoutData{Title: title, Active: name, Body: body}); err != nil {
		p.logger.WithError(err).WithField("page", name).Error("failed to render page")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	observability.RecordPageRender(name)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type feature struct {
	Icon, Title, Text, Link string
}

type homeData struct {
	Features []feature
	Stats    []stat
}

type stat struct {
	Value, Label string
}

func (p *Pages) home(w http.ResponseWriter, r *http.Request) {
	p.render(w, "home", "FitGPT Studio", homeData{
		Features: []feature{
			{Icon: "🤖", Title: "AIパーソナルトレーナー", Text: "24時間いつでもトレーニングや栄養の相談ができます。", Link: "/chat"},
			{Icon: "📺", Title: "ライブ配信", Text: "人気トレーナーのライブレッスンにリアルタイムで参加。", Link: "/live"},
			{Icon: "🎬", Title: "動画アーカイブ", Text: "カテゴリ別のワークアウト動画をいつでも視聴。", Link: "/archive"},
			{Icon: "📊", Title: "進捗トラッキング", Text: "ワークアウト記録と体組成の変化をひと目で確認。", Link: "/progress"},
		},
		Stats: []stat{
			{Value: "10,000+", Label: "アクティブユーザー"},
			{Value: "500+", Label: "ワークアウト動画"},
			{Value: "50+", Label: "認定トレーナー"},
			{Value: "98%", Label: "満足度"},
		},
	})
}

type chatData struct {
	Conversation chat.Conversation
	QuickPrompts []domain.QuickPrompt
	Draft        string
}

func (p *Pages) conversation(w http.ResponseWriter, r *http.Request) *chat.Responder {
	var responder *chat.Responder
	p.sessions.Bind(w, r, func(current string) string {
		id, resp := p.service.Conversation(current)
		responder = resp
		return id
	})
	return responder
}

func (p *Pages) chat(w http.ResponseWriter, r *http.Request) {
	responder := p.conversation(w, r)
	p.render(w, "chat", "AIトレーナー | FitGPT Studio", chatData{
		Conversation: responder.Snapshot(),
		QuickPrompts: p.service.QuickPrompts(),
		Draft:        r.URL.Query().Get("draft"),
	})
}

// submitChat follows post/redirect/get; rejected input just redirects.
func (p *Pages) submitChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	responder := p.conversation(w, r)
	if !responder.Submit(r.PostForm.Get("message")) {
		p.logger.Debug("chat submission ignored")
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

type catalogData struct {
	Query      catalog.Query
	Categories []domain.Category
}

type liveData struct {
	catalogData
	View studio.LiveView
}

func (p *Pages) live(w http.ResponseWriter, r *http.Request) {
	q := studio.ParseQuery(r.URL.Query(), "")
	p.render(w, "live", "ライブ配信 | FitGPT Studio", liveData{
		catalogData: catalogData{Query: q, Categories: p.service.Categories()},
		View:        p.service.Live(q),
	})
}

type archiveData struct {
	catalogData
	View  studio.ArchiveView
	Sorts []sortOption
}

type sortOption struct {
	Key   domain.SortKey
	Label string
}

var sortOptions = []sortOption{
	{Key: domain.SortNewest, Label: "新着順"},
	{Key: domain.SortPopular, Label: "人気順"},
	{Key: domain.SortRating, Label: "評価順"},
}

func (p *Pages) archive(w http.ResponseWriter, r *http.Request) {
	q := studio.ParseQuery(r.URL.Query(), domain.SortNewest)
	p.render(w, "archive", "動画アーカイブ | FitGPT Studio", archiveData{
		catalogData: catalogData{Query: q, Categories: p.service.Categories()},
		View:        p.service.Archive(q),
		Sorts:       sortOptions,
	})
}

type progressData struct {
	Dashboard progress.Dashboard
	Periods   []domain.Period
}

func (p *Pages) progress(w http.ResponseWriter, r *http.Request) {
	period := studio.ParsePeriod(r.URL.Query().Get("period"))
	p.render(w, "progress", "進捗トラッキング | FitGPT Studio", progressData{
		Dashboard: p.service.Progress(period),
		Periods:   domain.Periods,
	})
}
