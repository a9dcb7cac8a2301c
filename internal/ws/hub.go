package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wellness-chat/internal/observability"
)

// Hub is the authoritative live-presence map for all rooms in the
// process. Both maps are mutated together under one lock; a connection
// never appears in rooms without a matching info entry.
type Hub struct {
	rooms  map[int]map[*websocket.Conn]bool
	info   map[*websocket.Conn]ConnInfo
	mu     sync.RWMutex
	logger *zap.SugaredLogger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms:  make(map[int]map[*websocket.Conn]bool),
		info:   make(map[*websocket.Conn]ConnInfo),
		logger: logger,
	}
}

// Connect registers a live connection in its room. Access control is
// the caller's responsibility; the hub accepts unconditionally.
func (h *Hub) Connect(conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[info.RoomID]; !ok {
		h.rooms[info.RoomID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[info.RoomID][conn] = true
	h.info[conn] = info
}

// Disconnect removes the connection from whatever room it was in,
// pruning the room entry when it empties. Unknown connections are a
// no-op. The descriptor is returned for lifecycle event emission.
func (h *Hub) Disconnect(conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	info, ok := h.info[conn]
	if !ok {
		return ConnInfo{}, false
	}
	if conns, exists := h.rooms[info.RoomID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, info.RoomID)
		}
	}
	delete(h.info, conn)
	return info, true
}

// Info returns the descriptor for a live connection.
func (h *Hub) Info(conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	info, ok := h.info[conn]
	return info, ok
}

// IsUserConnected reports whether some live connection in the room
// belongs to the user. The router uses it to suppress redundant pushes.
func (h *Hub) IsUserConnected(userID, roomID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.rooms[roomID] {
		if info, ok := h.info[conn]; ok && info.UserID == userID {
			return true
		}
	}
	return false
}

// Broadcast delivers payload to every live connection in the room
// except exclude. Delivery is fire-and-forget per connection; a write
// failure closes and removes that connection without aborting the rest.
func (h *Hub) Broadcast(roomID int, payload []byte, exclude *websocket.Conn) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[roomID]))
	for conn := range h.rooms[roomID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if conn == exclude {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warnw("websocket write failed", "room_id", roomID, "error", err)
			conn.Close()
			if info, ok := h.Disconnect(conn); ok {
				h.publishWSError(info, err)
			}
		}
	}
}

func (h *Hub) publishWSError(info ConnInfo, err error) {
	observability.IncWSEvent("ws_error")
	_ = observability.PublishEvent(context.Background(), wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   wsEventPayload(info, "ws_error", time.Since(info.ConnectedAt), err.Error()),
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}
