package session

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultCookieName is used when Config.CookieName is empty.
const DefaultCookieName = "fitgpt_session"

// Manager reads and writes the session cookie.
type Manager struct {
	cfg    Config
	logger *logrus.Entry
	now    func() time.Time
}

// NewManager constructs a Manager.
func NewManager(cfg Config, logger *logrus.Entry) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{cfg: cfg, logger: logger, now: time.Now}
}

// Wrap resolves the cookie into a session id on the request context. Missing
// or invalid cookies leave the id empty; handlers then start a new session.
func (m *Manager) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cfg.CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := Parse(cookie.Value, m.cfg)
		if err != nil {
			m.logger.WithError(err).Debug("ignoring session cookie")
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// SetCookie issues a fresh token for sessionID.
func (m *Manager) SetCookie(w http.ResponseWriter, sessionID string) error {
	now := m.now()
	token, err := Issue(sessionID, m.cfg, now)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(m.cfg.TTL),
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Bind returns the id the handler should use. The cookie is rewritten when
// the store handed out a different id or when the presented token has used
// up half its lifetime, so an active visitor keeps their session.
func (m *Manager) Bind(w http.ResponseWriter, r *http.Request, acquire func(string) string) string {
	current := IDFromContext(r.Context())
	id := acquire(current)
	if id != current || m.needsRefresh(r) {
		if err := m.SetCookie(w, id); err != nil {
			m.logger.WithError(err).Warn("failed to set session cookie")
		}
	}
	return id
}

func (m *Manager) needsRefresh(r *http.Request) bool {
	exp, ok := expiryFromContext(r.Context())
	if !ok {
		return false
	}
	return exp.Sub(m.now()) < m.cfg.TTL/2
}
