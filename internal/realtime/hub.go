// Package realtime pushes chat messages and the live countdown over websockets.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 16
)

// Envelope frames every payload written to a socket.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client is one websocket connection. Only its write pump writes to conn.
type Client struct {
	key       string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(key string, conn *websocket.Conn) *Client {
	return &Client{
		key:  key,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue drops the frame when the client is slow or gone.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// readPump discards client frames and returns once the peer goes away.
func (c *Client) readPump() {
	defer c.close()
	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump serialises queued frames, pings and optional ticks onto conn.
func (c *Client) writePump(tick <-chan time.Time, onTick func(time.Time) []byte) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			if err := c.write(websocket.TextMessage, frame); err != nil {
				return
			}
		case now := <-tick:
			if frame := onTick(now); frame != nil {
				if err := c.write(websocket.TextMessage, frame); err != nil {
					return
				}
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Hub tracks clients grouped by key.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.key] == nil {
		h.clients[c.key] = make(map[*Client]struct{})
	}
	h.clients[c.key][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.key]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.key)
		}
	}
	h.mu.Unlock()
	c.close()
}

// Broadcast queues payload for every client under key and returns how many
// accepted it.
func (h *Hub) Broadcast(key, kind string, payload any) int {
	frame, err := json.Marshal(Envelope{Type: kind, Data: payload})
	if err != nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.clients[key] {
		if c.enqueue(frame) {
			delivered++
		}
	}
	return delivered
}

// Count reports the clients registered under key.
func (h *Hub) Count(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[key])
}

// CloseKey disconnects every client under key.
func (h *Hub) CloseKey(key string) {
	h.mu.Lock()
	set := h.clients[key]
	delete(h.clients, key)
	h.mu.Unlock()
	for c := range set {
		c.close()
	}
}
