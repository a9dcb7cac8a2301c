package models

import "time"

// Product is the read model embedded in product-reference envelopes.
type Product struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Status      *string   `db:"status" json:"status,omitempty"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	CategoryID  int       `db:"category_id" json:"category_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
