package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"wellness-chat/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

const messageColumns = `id, room_id, sender_id, type, content, image, product_id, office_id, is_read, created_at`

// MessageRepository is the message store contract consumed by the chat
// core. Writes are durable once they return.
type MessageRepository interface {
	CreateMessage(ctx context.Context, in models.NewMessage) (models.Message, error)
	GetMessages(ctx context.Context, roomID int, limit, offset int) ([]models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	MarkAsRead(ctx context.Context, roomID int, readerID int) (int64, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage appends a message to the room log and bumps the room's
// updated_at so "most recently active" ordering stays correct.
func (r *MessageRepo) CreateMessage(ctx context.Context, in models.NewMessage) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`INSERT INTO messages (room_id, sender_id, type, content, image, product_id, office_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+messageColumns,
		in.RoomID, in.SenderID, in.Type, in.Content, in.Image, in.ProductID, in.OfficeID)
	if err != nil {
		return models.Message{}, err
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE chat_rooms SET updated_at=NOW() WHERE id=$1`, in.RoomID); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// GetMessages returns the room's messages newest first.
func (r *MessageRepo) GetMessages(ctx context.Context, roomID int, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT `+messageColumns+` FROM messages WHERE room_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		roomID, limit, offset)
	return msgs, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// MarkAsRead flags every unread message in the room not authored by the
// reader and returns the number of rows updated.
func (r *MessageRepo) MarkAsRead(ctx context.Context, roomID int, readerID int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_read=TRUE WHERE room_id=$1 AND sender_id<>$2 AND is_read=FALSE`,
		roomID, readerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
