package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"wellness-chat/internal/chat"
	"wellness-chat/internal/models"
	"wellness-chat/internal/observability"
	"wellness-chat/internal/push"
	"wellness-chat/internal/repositories"
)

// Router validates, persists and fans out one inbound payload at a
// time. It never terminates a connection: processing errors come back
// as structured payloads on the originating connection and the receive
// loop continues.
type Router struct {
	hub           *Hub
	rooms         repositories.RoomRepository
	messages      repositories.MessageRepository
	users         repositories.UserRepository
	products      repositories.ProductRepository
	offices       repositories.OfficeRepository
	notifications repositories.NotificationRepository
	roomService   *chat.RoomService
	push          push.Dispatcher
	logger        *zap.SugaredLogger
}

// NewRouter constructs a Router.
func NewRouter(
	hub *Hub,
	rooms repositories.RoomRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	products repositories.ProductRepository,
	offices repositories.OfficeRepository,
	notifications repositories.NotificationRepository,
	roomService *chat.RoomService,
	dispatcher push.Dispatcher,
	logger *zap.SugaredLogger,
) *Router {
	return &Router{
		hub:           hub,
		rooms:         rooms,
		messages:      messages,
		users:         users,
		products:      products,
		offices:       offices,
		notifications: notifications,
		roomService:   roomService,
		push:          dispatcher,
		logger:        logger,
	}
}

// HandleInbound processes one raw payload from a live connection.
func (r *Router) HandleInbound(ctx context.Context, conn *websocket.Conn, raw []byte) {
	var in models.InboundMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		r.writeTo(conn, models.WSError{Error: "Invalid JSON format"})
		return
	}

	info, ok := r.hub.Info(conn)
	if !ok {
		return
	}

	msgType, err := models.ParseMessageType(in.Type)
	if err != nil {
		r.sendErrorEnvelope(conn, in, "Unknown message type")
		return
	}

	ctx, span := otel.Tracer("wellness-chat/ws").Start(ctx, "ws.message")
	span.SetAttributes(
		attribute.String("chat.message_type", string(msgType)),
		attribute.Int("chat.room_id", in.RoomID),
	)
	defer span.End()

	switch {
	case msgType == models.MessageJoin:
		r.handleJoin(ctx, conn, in)
	case msgType == models.MessageAssignExpert:
		r.handleAssignExpert(ctx, info, in)
	case msgType.Persisted():
		r.handleChatMessage(ctx, conn, msgType, in)
	}
}

// handleChatMessage runs the full pipeline: resolve sender, validate by
// type, persist, notify absent peers, build the envelope, broadcast.
func (r *Router) handleChatMessage(ctx context.Context, conn *websocket.Conn, msgType models.MessageType, in models.InboundMessage) {
	sender, err := r.users.GetUser(ctx, in.SenderID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			r.sendErrorEnvelope(conn, in, "User not found")
			return
		}
		r.processingError(conn, in, "resolve sender", err)
		return
	}

	if field, ok := validatePayload(msgType, in); !ok {
		r.sendErrorEnvelope(conn, in, field+" is required")
		return
	}

	room, err := r.rooms.GetRoom(ctx, in.RoomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			r.sendErrorEnvelope(conn, in, "Chat room not found")
			return
		}
		r.processingError(conn, in, "resolve room", err)
		return
	}

	content := ""
	if in.Content != nil {
		content = strings.TrimSpace(*in.Content)
	}
	msg, err := r.messages.CreateMessage(ctx, models.NewMessage{
		RoomID:    room.ID,
		SenderID:  sender.ID,
		Type:      msgType,
		Content:   content,
		Image:     in.Image,
		ProductID: in.ProductID,
		OfficeID:  in.OfficeID,
	})
	if err != nil {
		r.processingError(conn, in, "persist message", err)
		return
	}

	r.notifyAbsentPeers(ctx, room, sender, msg)

	env := models.Envelope{
		Type:       string(msgType),
		RoomID:     room.ID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		SenderRole: sender.Role,
		Content:    &msg.Content,
		Image:      msg.Image,
		Timestamp:  msg.CreatedAt,
		MessageID:  &msg.ID,
		ProductID:  msg.ProductID,
		OfficeID:   msg.OfficeID,
	}
	r.attachReference(ctx, msgType, &env)

	r.broadcast(room.ID, env)
	observability.IncWSEvent("message")
}

// handleJoin broadcasts a join announcement; nothing is persisted and
// no push goes out.
func (r *Router) handleJoin(ctx context.Context, conn *websocket.Conn, in models.InboundMessage) {
	sender, err := r.users.GetUser(ctx, in.SenderID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			r.sendErrorEnvelope(conn, in, "User not found")
			return
		}
		r.processingError(conn, in, "resolve sender", err)
		return
	}

	content := fmt.Sprintf("%s has joined the chat", sender.Name)
	r.broadcast(in.RoomID, models.Envelope{
		Type:       string(models.MessageJoin),
		RoomID:     in.RoomID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		SenderRole: sender.Role,
		Content:    &content,
		Timestamp:  time.Now().UTC(),
	})
	observability.IncWSEvent("join")
}

// handleAssignExpert reassigns the room's expert. Only admins and
// experts may do this; anyone else is silently ignored, as is a
// malformed expert id in the payload content.
func (r *Router) handleAssignExpert(ctx context.Context, info ConnInfo, in models.InboundMessage) {
	if info.Role != models.RoleAdmin && info.Role != models.RoleExpert {
		r.logger.Debugw("assign_expert ignored for role", "room_id", in.RoomID, "role", info.Role)
		return
	}
	if in.Content == nil {
		r.logger.Warnw("assign_expert payload missing expert id", "room_id", in.RoomID)
		return
	}

	expertID, err := strconv.Atoi(strings.TrimSpace(*in.Content))
	if err != nil {
		r.logger.Warnw("assign_expert payload not numeric", "room_id", in.RoomID, "content", *in.Content)
		return
	}

	if _, err := r.roomService.AssignExpert(ctx, in.RoomID, expertID); err != nil {
		r.logger.Warnw("expert assignment failed", "room_id", in.RoomID, "expert_id", expertID, "error", err)
		return
	}

	expert, err := r.users.GetUser(ctx, expertID)
	if err != nil {
		r.logger.Warnw("assigned expert lookup failed", "expert_id", expertID, "error", err)
		return
	}

	content := fmt.Sprintf("%s has been assigned as your expert", expert.Name)
	r.broadcast(in.RoomID, models.Envelope{
		Type:       string(models.MessageAssignExpert),
		RoomID:     in.RoomID,
		SenderID:   in.SenderID,
		SenderName: "System",
		SenderRole: models.RoleAdmin,
		Content:    &content,
		Timestamp:  time.Now().UTC(),
	})
	observability.IncWSEvent("assign_expert")
}

// validatePayload enforces the type-specific field requirements. It
// returns the missing field name on violation.
func validatePayload(msgType models.MessageType, in models.InboundMessage) (string, bool) {
	switch msgType {
	case models.MessageText, models.MessageAudio, models.MessageImage:
		hasContent := in.Content != nil && strings.TrimSpace(*in.Content) != ""
		hasMedia := in.Image != nil && *in.Image != ""
		if !hasContent && !hasMedia {
			return "content", false
		}
	case models.MessageProduct:
		if in.ProductID == nil {
			return "product_id", false
		}
	case models.MessageOffices:
		if in.OfficeID == nil {
			return "office_id", false
		}
	}
	return "", true
}

// attachReference resolves the referenced entity fresh so recipients
// see current data. A failed lookup degrades to a nil reference.
func (r *Router) attachReference(ctx context.Context, msgType models.MessageType, env *models.Envelope) {
	switch msgType {
	case models.MessageProduct:
		if env.ProductID == nil {
			return
		}
		product, err := r.products.GetProduct(ctx, *env.ProductID)
		if err != nil {
			r.logger.Warnw("product lookup failed", "product_id", *env.ProductID, "error", err)
			return
		}
		env.Product = &product
	case models.MessageOffices:
		if env.OfficeID == nil {
			return
		}
		office, err := r.offices.GetOffice(ctx, *env.OfficeID)
		if err != nil {
			r.logger.Warnw("office lookup failed", "office_id", *env.OfficeID, "error", err)
			return
		}
		env.Office = &office
	}
}

func (r *Router) broadcast(roomID int, env models.Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		r.logger.Errorw("envelope marshal failed", "room_id", roomID, "error", err)
		return
	}
	r.hub.Broadcast(roomID, payload, nil)
}

// sendErrorEnvelope reports a validation or not-found failure to the
// requester only; nothing is persisted or broadcast.
func (r *Router) sendErrorEnvelope(conn *websocket.Conn, in models.InboundMessage, message string) {
	content := message
	r.writeTo(conn, models.Envelope{
		Type:       "error",
		RoomID:     in.RoomID,
		SenderID:   in.SenderID,
		SenderName: "System",
		SenderRole: models.RoleAdmin,
		Content:    &content,
		Timestamp:  time.Now().UTC(),
	})
}

func (r *Router) processingError(conn *websocket.Conn, in models.InboundMessage, stage string, err error) {
	r.logger.Errorw("message processing failed", "stage", stage, "room_id", in.RoomID, "error", err)
	r.writeTo(conn, models.WSError{Error: "failed to process message"})
}

func (r *Router) writeTo(conn *websocket.Conn, payload interface{}) {
	if err := conn.WriteJSON(payload); err != nil {
		r.logger.Warnw("websocket write failed", "error", err)
	}
}
