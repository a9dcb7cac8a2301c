package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"wellness-chat/internal/models"
)

var ErrOfficeNotFound = errors.New("office not found")

// OfficeRepository resolves DXN directory references for outbound
// envelopes.
type OfficeRepository interface {
	GetOffice(ctx context.Context, officeID int) (models.Office, error)
}

// OfficeRepo reads the dxn_directory table owned by the main
// application.
type OfficeRepo struct {
	db *sqlx.DB
}

// NewOfficeRepo constructs an OfficeRepo.
func NewOfficeRepo(db *sqlx.DB) *OfficeRepo {
	return &OfficeRepo{db: db}
}

// GetOffice fetches a directory entry by id.
func (r *OfficeRepo) GetOffice(ctx context.Context, officeID int) (models.Office, error) {
	var office models.Office
	err := r.db.GetContext(ctx, &office,
		`SELECT id, country, person, position, phone1, phone2, whatsapp1, email1, website, address_line1, city
         FROM dxn_directory WHERE id=$1`, officeID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Office{}, ErrOfficeNotFound
	}
	return office, err
}
