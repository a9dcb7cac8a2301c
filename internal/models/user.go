package models

import "time"

// Role enumerates the user roles known to the wellness platform. Only
// admin, user and expert matter to the chat core; the rest are carried
// so directory rows always parse.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleUser        Role = "user"
	RoleExpert      Role = "expert"
	RoleSponsor     Role = "sponsor"
	RoleDistributor Role = "distributor"
	RoleGuest       Role = "guest"
)

// User is a directory entry resolved by id. FCMToken is nil for users
// that never registered a device.
type User struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	FCMToken  *string   `db:"fcm_token" json:"-"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
