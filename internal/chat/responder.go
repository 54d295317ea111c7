// Package chat simulates the AI trainer conversation.
package chat

import (
	"errors"
	"maps"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"example.com/fitgptstudio/internal/domain"
	"example.com/fitgptstudio/internal/observability"
)

// ErrNoReplies indicates a responder was configured without canned replies.
var ErrNoReplies = errors.New("chat: no canned replies configured")

// State is the responder phase.
type State string

const (
	StateIdle          State = "idle"
	StateAwaitingReply State = "awaiting_reply"
)

// Conversation is an immutable snapshot of a transcript.
type Conversation struct {
	Messages []domain.ChatMessage `json:"messages"`
	State    State                `json:"state"`
}

// Awaiting reports whether an assistant reply is pending.
func (c Conversation) Awaiting() bool {
	return c.State == StateAwaitingReply
}

func (c Conversation) with(msg domain.ChatMessage, state State) Conversation {
	messages := make([]domain.ChatMessage, len(c.Messages), len(c.Messages)+1)
	copy(messages, c.Messages)
	return Conversation{Messages: append(messages, msg), State: state}
}

// Random is the source for reply choice and delay. *rand.Rand satisfies it.
type Random interface {
	IntN(n int) int
	Int64N(n int64) int64
}

// Timer is a pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int       { return rand.IntN(n) }
func (globalRandom) Int64N(n int64) int64 { return rand.Int64N(n) }

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Config configures a Responder. Zero Random, Scheduler and Clock select the
// process-wide generator, wall-clock timers and time.Now.
type Config struct {
	Greeting  string
	Replies   []string
	MinDelay  time.Duration
	MaxDelay  time.Duration
	Random    Random
	Scheduler Scheduler
	Clock     func() time.Time
}

// DefaultMinDelay and DefaultMaxDelay bound the simulated typing delay.
const (
	DefaultMinDelay = time.Second
	DefaultMaxDelay = 3 * time.Second
)

func (c Config) withDefaults() (Config, error) {
	if len(c.Replies) == 0 {
		return c, ErrNoReplies
	}
	c.Replies = slices.Clone(c.Replies)
	if c.MinDelay <= 0 && c.MaxDelay <= 0 {
		c.MinDelay, c.MaxDelay = DefaultMinDelay, DefaultMaxDelay
	}
	if c.MinDelay < 0 {
		c.MinDelay = 0
	}
	if c.Random == nil {
		c.Random = globalRandom{}
	}
	if c.Scheduler == nil {
		c.Scheduler = wallScheduler{}
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c, nil
}

// Listener observes every appended message.
type Listener func(domain.ChatMessage)

// Responder drives one conversation. The snapshot is swapped under the
// mutex; listeners run outside it.
type Responder struct {
	cfg Config

	mu        sync.Mutex
	conv      Conversation
	nextID    int
	pending   Timer
	closed    bool
	listeners map[int]Listener
	nextSub   int
}

// NewResponder starts an idle conversation holding the greeting.
func NewResponder(cfg Config) (*Responder, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return newResponder(cfg), nil
}

// newResponder expects cfg to have been through withDefaults.
func newResponder(cfg Config) *Responder {
	r := &Responder{cfg: cfg, listeners: make(map[int]Listener)}
	r.conv = Conversation{State: StateIdle}
	if cfg.Greeting != "" {
		r.conv = r.conv.with(r.message(cfg.Greeting, domain.RoleAssistant), StateIdle)
	}
	return r
}

// Snapshot returns the current conversation.
func (r *Responder) Snapshot() Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conv
}

// Submit appends a user message and schedules the reply. Blank input or a
// submission while a reply is pending is ignored and reports false. Accepted
// text is stored as typed.
func (r *Responder) Submit(text string) bool {
	blank := strings.TrimSpace(text) == ""

	r.mu.Lock()
	if blank || r.closed || r.conv.Awaiting() {
		r.mu.Unlock()
		observability.RecordChatRejected()
		return false
	}
	msg := r.message(text, domain.RoleUser)
	r.conv = r.conv.with(msg, StateAwaitingReply)
	r.pending = r.cfg.Scheduler.AfterFunc(r.delay(), r.reply)
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	notify(listeners, msg)
	return true
}

// OnAppend registers l and returns a function that removes it.
func (r *Responder) OnAppend(l Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.listeners[id] = l
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// Close cancels a pending reply and rejects later submissions.
func (r *Responder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
	clear(r.listeners)
}

func (r *Responder) reply() {
	r.mu.Lock()
	if r.closed || !r.conv.Awaiting() {
		r.mu.Unlock()
		return
	}
	content := r.cfg.Replies[r.cfg.Random.IntN(len(r.cfg.Replies))]
	msg := r.message(content, domain.RoleAssistant)
	r.conv = r.conv.with(msg, StateIdle)
	r.pending = nil
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	notify(listeners, msg)
}

// delay is uniform in [MinDelay, MaxDelay); a collapsed range yields MinDelay.
func (r *Responder) delay() time.Duration {
	span := r.cfg.MaxDelay - r.cfg.MinDelay
	if span <= 0 {
		return r.cfg.MinDelay
	}
	return r.cfg.MinDelay + time.Duration(r.cfg.Random.Int64N(int64(span)))
}

func (r *Responder) message(content string, role domain.Role) domain.ChatMessage {
	r.nextID++
	ts := r.cfg.Clock()
	observability.RecordChatMessage(string(role), ts)
	return domain.ChatMessage{
		ID:        strconv.Itoa(r.nextID),
		Content:   content,
		Role:      role,
		Timestamp: ts,
	}
}

func (r *Responder) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(r.listeners))
	for _, id := range slices.Sorted(maps.Keys(r.listeners)) {
		out = append(out, r.listeners[id])
	}
	return out
}

func notify(listeners []Listener, msg domain.ChatMessage) {
	for _, l := range listeners {
		l(msg)
	}
}
