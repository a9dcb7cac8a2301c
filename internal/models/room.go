package models

import "time"

// Room pairs one requesting user with at most one assigned expert.
// At most one active room exists per owning user; rooms are never
// hard-deleted, only deactivated.
type Room struct {
	ID        int       `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name,omitempty"`
	UserID    int       `db:"user_id" json:"user_id"`
	ExpertID  *int      `db:"expert_id" json:"expert_id,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
