// Package chat relays direct messages between connected users over
// websockets. Messages are persisted through services.ChatService; the hub
// only tracks who is online.
package chat

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/baharkarakas/unitrack/internal/models"
)

const writeWait = 5 * time.Second

// peer serializes writes to one connection.
type peer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newPeer(conn *websocket.Conn) *peer { return &peer{conn: conn} }

func (p *peer) send(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return websocket.JSON.Send(p.conn, v)
}

// Hub maps each online user to their most recent connection.
type Hub struct {
	mu    sync.RWMutex
	peers map[string]*peer
}

func NewHub() *Hub {
	return &Hub{peers: make(map[string]*peer)}
}

// register makes p the user's live connection, replacing any older one.
func (h *Hub) register(userID string, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[userID] = p
}

// unregister removes the entry only while it still points at p, so a
// closing old connection cannot evict its replacement.
func (h *Hub) unregister(userID string, p *peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.peers[userID] != p {
		return false
	}
	delete(h.peers, userID)
	return true
}

func (h *Hub) lookup(userID string) *peer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.peers[userID]
}

func (h *Hub) Online(userID string) bool { return h.lookup(userID) != nil }

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Deliver pushes m to userID's live connection, if any. Delivery is best
// effort: a failed write is logged and reported as not delivered.
func (h *Hub) Deliver(userID string, m models.ChatMessage) bool {
	p := h.lookup(userID)
	if p == nil {
		return false
	}
	if err := p.send(messageFrame{Type: FrameNewMessage, Message: m}); err != nil {
		slog.Debug("chat delivery failed", "user_id", userID, "err", err)
		return false
	}
	return true
}
