package ws

import (
	"time"

	"wellness-chat/internal/models"
)

// ConnInfo describes one live connection: who is on it, in which room,
// and with what role. It is owned by the Hub; other components read it
// only through Hub queries.
type ConnInfo struct {
	ConnID      string
	UserID      int
	UserName    string
	RoomID      int
	Role        models.Role
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
