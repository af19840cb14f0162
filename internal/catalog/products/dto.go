package products

type CreateProductRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	SKU       *string `json:"sku,omitempty" validate:"omitempty,max=50"`
	Category  *string `json:"category,omitempty" validate:"omitempty,max=100"`
	CostPrice float64 `json:"cost_price" validate:"gte=0"`
	SalePrice float64 `json:"sale_price" validate:"gte=0"`
	Stock     int     `json:"stock" validate:"gte=0"`
	MinStock  int     `json:"min_stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	SKU       *string  `json:"sku,omitempty" validate:"omitempty,max=50"`
	Category  *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	CostPrice *float64 `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	SalePrice *float64 `json:"sale_price,omitempty" validate:"omitempty,gte=0"`
	Stock     *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	MinStock  *int     `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
}

type ListProductsRequest struct {
	Search   *string `json:"search,omitempty"`
	Category *string `json:"category,omitempty"`
	LowStock bool    `json:"low_stock,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
