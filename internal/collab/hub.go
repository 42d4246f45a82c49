// Package collab relays editing events between clients viewing the same
// presentation. The relay is verbatim: slide updates and cursor positions
// are fanned out to the other room members without any merging.
package collab

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// message is the wire format in both directions. Payload is passed through
// untouched.
type message struct {
	Type           string          `json:"type"` // join-presentation, slide-update, cursor-move
	PresentationID string          `json:"presentationId,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// client is one connected editor. Writes go through send so a slow reader
// never blocks the hub.
type client struct {
	conn *websocket.Conn
	send chan []byte
	room string
}

// Hub tracks rooms of connected clients, one room per presentation.
type Hub struct {
	log *zap.Logger

	mu    sync.Mutex
	rooms map[string]map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{log: log, rooms: make(map[string]map[*client]struct{})}
}

// RegisterRoutes mounts the collaboration WebSocket endpoint.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/ws/collab", h.handleWebSocket)
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 32)}
	go c.writeLoop()
	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.leave(c)
		close(c.send)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg message
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "join-presentation":
			if msg.PresentationID != "" {
				h.join(c, msg.PresentationID)
			}
		case "slide-update", "cursor-move":
			h.broadcast(c, raw)
		}
	}
}

func (c *client) writeLoop() {
	for raw := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}

func (h *Hub) join(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.room != "" {
		h.removeLocked(c)
	}
	c.room = room
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if c.room == "" {
		return
	}
	if members := h.rooms[c.room]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, c.room)
		}
	}
	c.room = ""
}

// broadcast relays raw bytes to every other member of the sender's room.
// Clients whose send buffer is full miss the event rather than stall the
// room.
func (h *Hub) broadcast(sender *client, raw []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sender.room == "" {
		return
	}
	for c := range h.rooms[sender.room] {
		if c == sender {
			continue
		}
		select {
		case c.send <- raw:
		default:
		}
	}
}

// RoomSize reports how many clients are in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}
