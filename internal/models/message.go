package models

import (
	"fmt"
	"time"
)

// MessageType is the closed tag for chat payloads. Adding a type means
// touching every switch that matches on it.
type MessageType string

const (
	MessageText         MessageType = "text"
	MessageAudio        MessageType = "audio"
	MessageImage        MessageType = "image"
	MessageProduct      MessageType = "product"
	MessageOffices      MessageType = "offices"
	MessageJoin         MessageType = "join"
	MessageAssignExpert MessageType = "assign_expert"
)

// ParseMessageType maps a wire string onto the closed tag set.
func ParseMessageType(s string) (MessageType, error) {
	switch MessageType(s) {
	case MessageText, MessageAudio, MessageImage, MessageProduct, MessageOffices, MessageJoin, MessageAssignExpert:
		return MessageType(s), nil
	}
	return "", fmt.Errorf("unknown message type %q", s)
}

// Persisted reports whether messages of this type are written to the
// store. Join and assignment events are broadcast-only.
func (t MessageType) Persisted() bool {
	switch t {
	case MessageText, MessageAudio, MessageImage, MessageProduct, MessageOffices:
		return true
	}
	return false
}

// Message is one persisted chat message. Which optional fields are set
// depends on Type: text/audio/image carry content or a media URL,
// product/offices carry the reference id.
type Message struct {
	ID        int         `db:"id" json:"id"`
	RoomID    int         `db:"room_id" json:"room_id"`
	SenderID  int         `db:"sender_id" json:"sender_id"`
	Type      MessageType `db:"type" json:"type"`
	Content   string      `db:"content" json:"content"`
	Image     *string     `db:"image" json:"image,omitempty"`
	ProductID *int        `db:"product_id" json:"product_id,omitempty"`
	OfficeID  *int        `db:"office_id" json:"office_id,omitempty"`
	IsRead    bool        `db:"is_read" json:"is_read"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// NewMessage carries the fields needed to append a message to a room.
type NewMessage struct {
	RoomID    int
	SenderID  int
	Type      MessageType
	Content   string
	Image     *string
	ProductID *int
	OfficeID  *int
}
