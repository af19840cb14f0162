package services

import (
	"time"

	"github.com/google/uuid"
)

// CatalogService is a catalog entry for labor sold on repair orders.
// Unlike a Product it has no stock concept.
type CatalogService struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CostPrice   float64   `json:"cost_price" db:"cost_price"`
	SalePrice   float64   `json:"sale_price" db:"sale_price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
