package products

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	SKU       *string   `json:"sku,omitempty" db:"sku"`
	Category  *string   `json:"category,omitempty" db:"category"`
	CostPrice float64   `json:"cost_price" db:"cost_price"`
	SalePrice float64   `json:"sale_price" db:"sale_price"`
	Stock     int       `json:"stock" db:"stock"`
	MinStock  int       `json:"min_stock" db:"min_stock"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LowStock reports whether the product is below its minimum threshold.
// The comparison is strict: stock equal to min_stock is not low.
func (p Product) LowStock() bool {
	return p.Stock < p.MinStock
}
