package models

import "time"

// InboundMessage is one client payload on the real-time channel.
type InboundMessage struct {
	Type       string  `json:"type"`
	RoomID     int     `json:"room_id"`
	SenderID   int     `json:"sender_id"`
	SenderRole string  `json:"sender_role"`
	Content    *string `json:"content"`
	Image      *string `json:"image"`
	ProductID  *int    `json:"product_id"`
	OfficeID   *int    `json:"office_id"`
	Timestamp  string  `json:"timestamp"`
}

// Envelope is the structured payload broadcast to live connections.
// Product and Office are resolved fresh at send time for reference
// message types so recipients see current data.
type Envelope struct {
	Type       string    `json:"type"`
	RoomID     int       `json:"room_id"`
	SenderID   int       `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	SenderRole Role      `json:"sender_role"`
	Content    *string   `json:"content"`
	Image      *string   `json:"image"`
	Timestamp  time.Time `json:"timestamp"`
	MessageID  *int      `json:"message_id"`
	ProductID  *int      `json:"product_id"`
	OfficeID   *int      `json:"office_id"`
	Product    *Product  `json:"product"`
	Office     *Office   `json:"office"`
}

// WSError is sent back on the originating connection only, for
// transport-level failures like malformed JSON.
type WSError struct {
	Error string `json:"error"`
}
