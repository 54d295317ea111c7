package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/fitgptstudio/internal/observability"
)

// DefaultSessionTTL is how long an untouched conversation is kept.
const DefaultSessionTTL = 30 * time.Minute

// SetupFunc runs once for every new responder, before it is visible to callers.
type SetupFunc func(sessionID string, r *Responder)

// TeardownFunc runs once for every session after its responder is closed.
type TeardownFunc func(sessionID string)

// SessionsConfig configures a Sessions store.
type SessionsConfig struct {
	Responder Config
	TTL       time.Duration
	Setup     SetupFunc
	Teardown  TeardownFunc
	Clock     func() time.Time
}

type sessionEntry struct {
	responder *Responder
	lastSeen  time.Time
}

// Sessions keeps one responder per browser session and evicts idle ones.
type Sessions struct {
	cfg Config
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries  map[string]*sessionEntry
	setup    SetupFunc
	teardown TeardownFunc
}

// NewSessions validates the responder config once so Acquire cannot fail.
func NewSessions(cfg SessionsConfig) (*Sessions, error) {
	resolved, err := cfg.Responder.withDefaults()
	if err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Sessions{
		cfg:     resolved,
		ttl:     cfg.TTL,
		now:     cfg.Clock,
		entries:  make(map[string]*sessionEntry),
		setup:    cfg.Setup,
		teardown: cfg.Teardown,
	}, nil
}

// Acquire returns the responder for id, creating a session with a fresh id
// when id is empty or unknown. The returned id is the one to hand back to
// the client.
func (s *Sessions) Acquire(id string) (string, *Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[id]; ok && id != "" {
		entry.lastSeen = s.now()
		return id, entry.responder
	}

	r := newResponder(s.cfg)
	id = uuid.NewString()
	if s.setup != nil {
		s.setup(id, r)
	}
	s.entries[id] = &sessionEntry{responder: r, lastSeen: s.now()}
	observability.SetChatSessions(len(s.entries))
	return id, r
}

// Lookup returns an existing responder without creating one.
func (s *Sessions) Lookup(id string) (*Responder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.responder, true
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep closes and drops sessions idle for longer than the TTL.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.ttl)
	evicted := make(map[string]*sessionEntry)
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			evicted[id] = entry
			delete(s.entries, id)
		}
	}
	observability.SetChatSessions(len(s.entries))
	s.mu.Unlock()

	s.release(evicted)
	return len(evicted)
}

// Run sweeps on every interval until ctx is cancelled, then closes every
// remaining session.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*sessionEntry)
	observability.SetChatSessions(0)
	s.mu.Unlock()

	s.release(entries)
}

func (s *Sessions) release(entries map[string]*sessionEntry) {
	for id, entry := range entries {
		entry.responder.Close()
		if s.teardown != nil {
			s.teardown(id)
		}
	}
}
