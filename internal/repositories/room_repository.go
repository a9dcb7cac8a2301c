package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"wellness-chat/internal/models"
)

var ErrRoomNotFound = errors.New("chat room not found")

const roomColumns = `id, name, user_id, expert_id, is_active, created_at, updated_at`

// RoomRepository abstracts chat room persistence.
type RoomRepository interface {
	CreateRoom(ctx context.Context, userID int, name *string, expertID *int) (models.Room, error)
	GetRoom(ctx context.Context, roomID int) (models.Room, error)
	GetActiveRoomForUser(ctx context.Context, userID int) (models.Room, error)
	ListActiveRooms(ctx context.Context) ([]models.Room, error)
	ListExpertRooms(ctx context.Context, expertID int) ([]models.Room, error)
	CountActiveRoomsForExpert(ctx context.Context, expertID int) (int, error)
	AssignExpert(ctx context.Context, roomID int, expertID int) (models.Room, error)
	DeactivateIdleRooms(ctx context.Context, idleFor time.Duration) (int64, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// CreateRoom inserts a new active room.
func (r *RoomRepo) CreateRoom(ctx context.Context, userID int, name *string, expertID *int) (models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room,
		`INSERT INTO chat_rooms (name, user_id, expert_id) VALUES ($1, $2, $3) RETURNING `+roomColumns,
		name, userID, expertID)
	return room, err
}

// GetRoom fetches a room by id.
func (r *RoomRepo) GetRoom(ctx context.Context, roomID int) (models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room, `SELECT `+roomColumns+` FROM chat_rooms WHERE id=$1`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrRoomNotFound
	}
	return room, err
}

// GetActiveRoomForUser returns the user's active room, newest first
// when legacy data holds more than one.
func (r *RoomRepo) GetActiveRoomForUser(ctx context.Context, userID int) (models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room,
		`SELECT `+roomColumns+` FROM chat_rooms WHERE user_id=$1 AND is_active ORDER BY updated_at DESC LIMIT 1`,
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrRoomNotFound
	}
	return room, err
}

// ListActiveRooms returns every active room, most recently active first.
func (r *RoomRepo) ListActiveRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.SelectContext(ctx, &rooms,
		`SELECT `+roomColumns+` FROM chat_rooms WHERE is_active ORDER BY updated_at DESC`)
	return rooms, err
}

// ListExpertRooms returns the active rooms assigned to an expert.
func (r *RoomRepo) ListExpertRooms(ctx context.Context, expertID int) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.SelectContext(ctx, &rooms,
		`SELECT `+roomColumns+` FROM chat_rooms WHERE expert_id=$1 AND is_active ORDER BY updated_at DESC`,
		expertID)
	return rooms, err
}

// CountActiveRoomsForExpert counts the expert's current load.
func (r *RoomRepo) CountActiveRoomsForExpert(ctx context.Context, expertID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM chat_rooms WHERE expert_id=$1 AND is_active`, expertID)
	return count, err
}

// AssignExpert overwrites the room's expert and bumps updated_at.
func (r *RoomRepo) AssignExpert(ctx context.Context, roomID int, expertID int) (models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room,
		`UPDATE chat_rooms SET expert_id=$2, updated_at=NOW() WHERE id=$1 RETURNING `+roomColumns,
		roomID, expertID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrRoomNotFound
	}
	return room, err
}

// DeactivateIdleRooms deactivates rooms whose last activity is older
// than idleFor and returns how many were touched.
func (r *RoomRepo) DeactivateIdleRooms(ctx context.Context, idleFor time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE chat_rooms SET is_active=FALSE, updated_at=NOW() WHERE is_active AND updated_at < $1`,
		time.Now().Add(-idleFor))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
