package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"wellness-chat/internal/models"
)

// NotificationRepository records push attempts before dispatch.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, in models.NewNotification) (models.Notification, error)
}

// NotificationRepo is a sqlx-backed repository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// CreateNotification inserts a notification row.
func (r *NotificationRepo) CreateNotification(ctx context.Context, in models.NewNotification) (models.Notification, error) {
	var n models.Notification
	err := r.db.GetContext(ctx, &n,
		`INSERT INTO notifications (title, body, type, target_user_id, sender_id)
         VALUES ($1, $2, $3, $4, $5) RETURNING id, title, body, type, target_user_id, sender_id, created_at`,
		in.Title, in.Body, in.Type, in.TargetUserID, in.SenderID)
	return n, err
}
