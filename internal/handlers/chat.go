package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wellness-chat/internal/chat"
	"wellness-chat/internal/models"
	"wellness-chat/internal/repositories"
)

const defaultPageSize = 50

// ChatHandler manages the REST surface of the chat subsystem.
type ChatHandler struct {
	rooms       repositories.RoomRepository
	messages    repositories.MessageRepository
	users       repositories.UserRepository
	roomService *chat.RoomService
	logger      *zap.SugaredLogger
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(rooms repositories.RoomRepository, messages repositories.MessageRepository, users repositories.UserRepository, roomService *chat.RoomService, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{
		rooms:       rooms,
		messages:    messages,
		users:       users,
		roomService: roomService,
		logger:      logger,
	}
}

// CreateRoom returns the caller's active room, creating and
// auto-assigning one when none exists. Duplicate creation is not an
// error; the existing room comes back with a 200.
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	room, created, err := h.roomService.GetOrCreateRoom(c.Request.Context(), user)
	if err != nil {
		h.logger.Errorw("room creation failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat room"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "user already has an active chat room", "room": room})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "chat room created", "room": room})
}

// GetMyRoom returns the caller's current room: own active room for
// plain users, first assigned room for experts, first active room for
// admins.
func (h *ChatHandler) GetMyRoom(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var room *models.Room
	switch user.Role {
	case models.RoleUser:
		found, err := h.rooms.GetActiveRoomForUser(c.Request.Context(), user.ID)
		if err != nil && !errors.Is(err, repositories.ErrRoomNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat room"})
			return
		}
		if err == nil {
			room = &found
		}
	case models.RoleExpert:
		assigned, err := h.rooms.ListExpertRooms(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat rooms"})
			return
		}
		if len(assigned) > 0 {
			room = &assigned[0]
		}
	case models.RoleAdmin:
		active, err := h.rooms.ListActiveRooms(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat rooms"})
			return
		}
		if len(active) > 0 {
			room = &active[0]
		}
	}

	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active chat room found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// GetRoom returns a room with a page of its messages, newest first, and
// marks the caller's unread messages as read.
func (h *ChatHandler) GetRoom(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	room, err := h.rooms.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "chat room not found"})
		return
	}

	if !chat.CanAccessRoom(user, room) {
		c.JSON(http.StatusForbidden, gin.H{"error": "no access to this chat room"})
		return
	}

	limit, offset := pagination(c)
	msgs, err := h.messages.GetMessages(c.Request.Context(), roomID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	read, err := h.messages.MarkAsRead(c.Request.Context(), roomID, user.ID)
	if err != nil {
		h.logger.Warnw("mark as read failed", "room_id", roomID, "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "messages": msgs, "marked_read": read})
}

// ListRooms returns all active rooms for admins and assigned rooms for
// experts.
func (h *ChatHandler) ListRooms(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var (
		rooms []models.Room
		err   error
	)
	switch user.Role {
	case models.RoleAdmin:
		rooms, err = h.rooms.ListActiveRooms(c.Request.Context())
	case models.RoleExpert:
		rooms, err = h.rooms.ListExpertRooms(c.Request.Context(), user.ID)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *ChatHandler) currentUser(c *gin.Context) (models.User, bool) {
	userID := c.GetInt("userID")
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "user not found"})
		return models.User{}, false
	}
	return user, true
}

func pagination(c *gin.Context) (int, int) {
	limit := defaultPageSize
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
