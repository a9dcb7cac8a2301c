package models

import "time"

// Notification is the persisted record of a push attempt. It is written
// before the dispatcher is invoked; delivery itself stays best-effort.
type Notification struct {
	ID           int       `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Body         string    `db:"body" json:"body"`
	Type         string    `db:"type" json:"type"`
	TargetUserID int       `db:"target_user_id" json:"target_user_id"`
	SenderID     int       `db:"sender_id" json:"sender_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewNotification carries the fields for one notification row.
type NewNotification struct {
	Title        string
	Body         string
	Type         string
	TargetUserID int
	SenderID     int
}
