package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"wellness-chat/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, name, email, role, fcm_token, image_url, created_at`

// UserRepository is the user directory consumed by the chat core:
// identity, role and push token by id.
type UserRepository interface {
	GetUser(ctx context.Context, userID int) (models.User, error)
	ListExperts(ctx context.Context) ([]models.User, error)
}

// UserRepo reads the users table owned by the main application.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser resolves a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ListExperts returns every user holding the expert role, ordered by id
// so tie-breaking in assignment stays deterministic.
func (r *UserRepo) ListExperts(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY id`, models.RoleExpert)
	return users, err
}
