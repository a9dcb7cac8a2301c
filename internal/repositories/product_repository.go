package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"wellness-chat/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository resolves product references for outbound envelopes.
type ProductRepository interface {
	GetProduct(ctx context.Context, productID int) (models.Product, error)
}

// ProductRepo reads the products table owned by the main application.
type ProductRepo struct {
	db *sqlx.DB
}

// NewProductRepo constructs a ProductRepo.
func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// GetProduct fetches a product by id.
func (r *ProductRepo) GetProduct(ctx context.Context, productID int) (models.Product, error) {
	var product models.Product
	err := r.db.GetContext(ctx, &product,
		`SELECT id, name, description, status, image_url, category_id, created_at FROM products WHERE id=$1`,
		productID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return product, err
}
