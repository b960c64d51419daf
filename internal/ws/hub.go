package ws

import (
	"sync"

	"github.com/yourorg/chatapp/internal/metrics"
)

// Hub is the connection registry plus a room mirror. Both maps are caches:
// nothing here survives a restart and nothing here is consulted for
// authorization. Persisted chat membership decides who may receive what.
type Hub struct {
	mu sync.RWMutex
	// userID -> live connection handles (multi-device)
	connsByUser map[string]map[*Client]struct{}
	// chatID -> subscribed connections; a delivery filter only
	rooms map[string]map[*Client]struct{}
	// reverse index so Unregister can clear room entries
	roomsByClient map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		connsByUser:   make(map[string]map[*Client]struct{}),
		rooms:         make(map[string]map[*Client]struct{}),
		roomsByClient: make(map[*Client]map[string]struct{}),
	}
}

// Register adds one connection handle. Registration is additive: a second
// device registers alongside the first.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connsByUser[c.UserID]; !ok {
		h.connsByUser[c.UserID] = make(map[*Client]struct{})
	}
	h.connsByUser[c.UserID][c] = struct{}{}
	metrics.ConnectionsOpen.Inc()
}

// Unregister removes exactly one handle; other connections of the same
// user stay registered.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connsByUser[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.connsByUser, c.UserID)
	}
	for chatID := range h.roomsByClient[c] {
		if members, ok := h.rooms[chatID]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, chatID)
			}
		}
	}
	delete(h.roomsByClient, c)
	metrics.ConnectionsOpen.Dec()
}

// JoinRoom subscribes a connection to a chat room.
func (h *Hub) JoinRoom(c *Client, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[*Client]struct{})
	}
	h.rooms[chatID][c] = struct{}{}
	if _, ok := h.roomsByClient[c]; !ok {
		h.roomsByClient[c] = make(map[string]struct{})
	}
	h.roomsByClient[c][chatID] = struct{}{}
}

// ConnectionsFor snapshots the live handles of one user.
func (h *Hub) ConnectionsFor(userID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.connsByUser[userID]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// SendToUser pushes a payload to every connection of one user. Offline
// users are silently skipped.
func (h *Hub) SendToUser(userID string, payload []byte) {
	for _, c := range h.ConnectionsFor(userID) {
		c.Enqueue(payload)
	}
}

// ConnectedUsers lists users with at least one live connection.
func (h *Hub) ConnectedUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.connsByUser))
	for id := range h.connsByUser {
		out = append(out, id)
	}
	return out
}
