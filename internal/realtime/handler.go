package realtime

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"example.com/fitgptstudio/internal/observability"
)

// Frame types.
const (
	TypeSnapshot = "snapshot"
	TypeMessage  = "message"
	TypeClock    = "clock"
)

// DefaultClockInterval is the live page refresh period.
const DefaultClockInterval = time.Second

// Config configures the websocket endpoints.
type Config struct {
	ClockInterval  time.Duration
	AllowedOrigins []string
}

// Handler upgrades requests and attaches them to the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	interval time.Duration
	logger   *logrus.Entry
}

// NewHandler constructs a Handler.
func NewHandler(hub *Hub, cfg Config, logger *logrus.Entry) *Handler {
	if cfg.ClockInterval <= 0 {
		cfg.ClockInterval = DefaultClockInterval
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	origins := slices.Clone(cfg.AllowedOrigins)
	return &Handler{
		hub:      hub,
		interval: cfg.ClockInterval,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r, origins)
			},
		},
	}
}

func originAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// ServeChat streams messages broadcast under sessionID. The client is
// registered before snapshot is called, so a message appended in between is
// either in the snapshot or pushed after it.
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request, sessionID string, snapshot func() any) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("chat websocket upgrade failed")
		return
	}
	c := newClient(sessionID, conn)
	h.hub.register(c)
	observability.ChatClientConnected(1)
	defer func() {
		h.hub.unregister(c)
		observability.ChatClientConnected(-1)
	}()

	if frame, err := json.Marshal(Envelope{Type: TypeSnapshot, Data: snapshot()}); err == nil {
		c.enqueue(frame)
	} else {
		h.logger.WithError(err).Warn("failed to encode chat snapshot")
	}

	go c.writePump(nil, nil)
	c.readPump()
}

// ServeClock pushes feed(now) every interval until the client disconnects.
// The ticker belongs to the connection and stops with it.
func (h *Handler) ServeClock(w http.ResponseWriter, r *http.Request, feed func(time.Time) any) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("clock websocket upgrade failed")
		return
	}
	c := newClient("", conn)
	observability.ClockClientConnected(1)
	defer observability.ClockClientConnected(-1)

	render := func(now time.Time) []byte {
		frame, err := json.Marshal(Envelope{Type: TypeClock, Data: feed(now)})
		if err != nil {
			h.logger.WithError(err).Warn("failed to encode clock frame")
			return nil
		}
		return frame
	}
	if frame := render(time.Now()); frame != nil {
		c.enqueue(frame)
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	go c.writePump(ticker.C, render)
	c.readPump()
}
