// Package api exposes the JSON endpoints of the studio.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"example.com/fitgptstudio/internal/chat"
	"example.com/fitgptstudio/internal/domain"
	"example.com/fitgptstudio/internal/realtime"
	"example.com/fitgptstudio/internal/session"
	"example.com/fitgptstudio/internal/studio"
)

const maxBodyBytes = 4 << 10

// Handler coordinates HTTP requests with the studio service.
type Handler struct {
	service  *studio.Service
	sessions *session.Manager
	sockets  *realtime.Handler
	logger   *logrus.Entry
}

// NewHandler builds a Handler.
func NewHandler(service *studio.Service, sessions *session.Manager, sockets *realtime.Handler, logger *logrus.Entry) *Handler {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{service: service, sessions: sessions, sockets: sockets, logger: logger}
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/archive/videos", h.archiveVideos)
		r.Get("/archive/featured", h.archiveFeatured)
		r.Get("/archive/categories", h.archiveCategories)
		r.Get("/live", h.live)
		r.Get("/live/clock", h.liveClock)
		r.Get("/progress", h.progress)
		r.Get("/chat/messages", h.chatMessages)
		r.Post("/chat/messages", h.submitChatMessage)
		r.Get("/chat/ws", h.chatSocket)
	})
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// NotFound answers unknown routes with the JSON error body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
}

func (h *Handler) archiveVideos(w http.ResponseWriter, r *http.Request) {
	view := h.service.Archive(studio.ParseQuery(r.URL.Query(), domain.SortNewest))
	writeJSON(w, http.StatusOK, ListContentResponse{Items: view.Items, Total: view.Total})
}

func (h *Handler) archiveFeatured(w http.ResponseWriter, r *http.Request) {
	items := h.service.Featured()
	writeJSON(w, http.StatusOK, ListContentResponse{Items: items, Total: len(items)})
}

func (h *Handler) archiveCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListCategoriesResponse{Items: h.service.Categories()})
}

func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Live(studio.ParseQuery(r.URL.Query(), "")))
}

func (h *Handler) liveClock(w http.ResponseWriter, r *http.Request) {
	h.sockets.ServeClock(w, r, func(now time.Time) any {
		return h.service.Clock(now)
	})
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Progress(studio.ParsePeriod(r.URL.Query().Get("period"))))
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) *chat.Responder {
	var responder *chat.Responder
	h.sessions.Bind(w, r, func(current string) string {
		id, resp := h.service.Conversation(current)
		responder = resp
		return id
	})
	return responder
}

func (h *Handler) chatMessages(w http.ResponseWriter, r *http.Request) {
	responder := h.conversation(w, r)
	writeJSON(w, http.StatusOK, toConversationView(responder.Snapshot(), h.service.QuickPrompts()))
}

func (h *Handler) submitChatMessage(w http.ResponseWriter, r *http.Request) {
	var req SubmitMessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	responder := h.conversation(w, r)
	accepted := responder.Submit(req.Content)
	if !accepted {
		h.logger.WithField("path", r.URL.Path).Debug("chat submission ignored")
	}
	writeJSON(w, http.StatusOK, SubmitMessageResponse{
		Accepted:     accepted,
		Conversation: toConversationView(responder.Snapshot(), nil),
	})
}

func (h *Handler) chatSocket(w http.ResponseWriter, r *http.Request) {
	id := session.IDFromContext(r.Context())
	responder, ok := h.service.ExistingConversation(id)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "no chat session; load /v1/chat/messages first")
		return
	}
	h.sockets.ServeChat(w, r, id, func() any {
		return toConversationView(responder.Snapshot(), nil)
	})
}

// ListContentResponse wraps catalog items.
type ListContentResponse struct {
	Items []domain.ContentItem `json:"items"`
	Total int                  `json:"total"`
}

// ListCategoriesResponse wraps the archive tabs.
type ListCategoriesResponse struct {
	Items []domain.Category `json:"items"`
}

// SubmitMessageRequest is the chat POST body.
type SubmitMessageRequest struct {
	Content string `json:"content"`
}

// SubmitMessageResponse reports whether the submission was taken.
type SubmitMessageResponse struct {
	Accepted     bool             `json:"accepted"`
	Conversation ConversationView `json:"conversation"`
}

// ConversationView is the transcript as served to clients.
type ConversationView struct {
	Messages     []domain.ChatMessage `json:"messages"`
	State        chat.State           `json:"state"`
	Typing       bool                 `json:"typing"`
	QuickPrompts []domain.QuickPrompt `json:"quick_prompts,omitempty"`
}

func toConversationView(c chat.Conversation, prompts []domain.QuickPrompt) ConversationView {
	return ConversationView{
		Messages:     c.Messages,
		State:        c.State,
		Typing:       c.Awaiting(),
		QuickPrompts: prompts,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
