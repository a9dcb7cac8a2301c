package ws

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"wellness-chat/internal/chat"
	"wellness-chat/internal/observability"
	"wellness-chat/internal/repositories"
)

// ChatWebSocketHandler admits real-time connections and runs their
// receive loops.
type ChatWebSocketHandler struct {
	hub    *Hub
	router *Router
	rooms  repositories.RoomRepository
	users  repositories.UserRepository
	logger *zap.SugaredLogger
}

// NewChatWebSocketHandler constructs a ChatWebSocketHandler.
func NewChatWebSocketHandler(hub *Hub, router *Router, rooms repositories.RoomRepository, users repositories.UserRepository, logger *zap.SugaredLogger) *ChatWebSocketHandler {
	return &ChatWebSocketHandler{hub: hub, router: router, rooms: rooms, users: users, logger: logger}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, checks access and registers the
// client. The socket is closed with a policy-violation code when the
// user is unknown, the room is unknown, or access is denied.
func (h *ChatWebSocketHandler) Handle(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	ctx, span := otel.Tracer("wellness-chat/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		h.closePolicy(conn, "User not found")
		return
	}

	room, err := h.rooms.GetRoom(ctx, roomID)
	if err != nil {
		h.closePolicy(conn, "Chat room not found")
		return
	}

	if !chat.CanAccessRoom(user, room) {
		h.closePolicy(conn, "Access denied to this chat room")
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      uuid.NewString(),
		UserID:      user.ID,
		UserName:    user.Name,
		RoomID:      room.ID,
		Role:        user.Role,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.Connect(conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload(info, "ws_connect", 0, ""),
	}, observability.BuildHeaders(requestID, traceID))

	go h.receiveLoop(conn, info)
}

// receiveLoop reads payloads until the transport drops. Processing
// errors never end the loop; only a read failure does. A disconnect
// does not cancel router work already in flight.
func (h *ChatWebSocketHandler) receiveLoop(conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.hub.Disconnect(conn)
		conn.Close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		_ = observability.PublishEvent(context.Background(), wsRoutingKey, observability.EventEnvelope{
			EventType: "ws_events",
			EventName: "ws_disconnect",
			Payload:   wsEventPayload(info, "ws_disconnect", time.Since(info.ConnectedAt), closeReason),
		}, observability.BuildHeaders(info.RequestID, info.TraceID))
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.hub.publishWSError(info, err)
			}
			return
		}
		h.router.HandleInbound(context.Background(), conn, raw)
	}
}

func (h *ChatWebSocketHandler) closePolicy(conn *websocket.Conn, reason string) {
	h.logger.Infow("websocket admission rejected", "reason", reason)
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	conn.Close()
}
