package orders

import (
	"github.com/google/uuid"

	"github.com/oficina-erp/oficina-erp/internal/finance"
)

type OrderItemInput struct {
	Kind      string     `json:"kind" validate:"required,oneof=product service manual"`
	CatalogID *uuid.UUID `json:"catalog_id,omitempty"`
	Name      string     `json:"name" validate:"required,max=200"`
	CostPrice float64    `json:"cost_price" validate:"gte=0"`
	SalePrice float64    `json:"sale_price" validate:"gte=0"`
	Quantity  int        `json:"quantity" validate:"gte=1"`
}

type CreateOrderRequest struct {
	ClientID       *uuid.UUID        `json:"client_id,omitempty"`
	Device         string            `json:"device" validate:"required,max=200"`
	Category       DeviceCategory    `json:"category" validate:"required,oneof=smartphone tablet notebook desktop printer monitor other"`
	SerialNumber   *string           `json:"serial_number,omitempty" validate:"omitempty,max=100"`
	DevicePassword *string           `json:"device_password,omitempty" validate:"omitempty,max=100"`
	Accessories    *string           `json:"accessories,omitempty" validate:"omitempty,max=500"`
	Issue          string            `json:"issue" validate:"required,max=2000"`
	InternalNotes  *string           `json:"internal_notes,omitempty" validate:"omitempty,max=2000"`
	Priority       Priority          `json:"priority" validate:"required,oneof=alta media baixa"`
	CategoryFields map[string]string `json:"category_specific_fields,omitempty"`
	Items          []OrderItemInput  `json:"items" validate:"dive"`
}

type UpdateOrderRequest struct {
	ClientID       *uuid.UUID           `json:"client_id,omitempty"`
	Device         *string              `json:"device,omitempty" validate:"omitempty,max=200"`
	Category       *DeviceCategory      `json:"category,omitempty" validate:"omitempty,oneof=smartphone tablet notebook desktop printer monitor other"`
	SerialNumber   *string              `json:"serial_number,omitempty" validate:"omitempty,max=100"`
	DevicePassword *string              `json:"device_password,omitempty" validate:"omitempty,max=100"`
	Accessories    *string              `json:"accessories,omitempty" validate:"omitempty,max=500"`
	Issue          *string              `json:"issue,omitempty" validate:"omitempty,max=2000"`
	InternalNotes  *string              `json:"internal_notes,omitempty" validate:"omitempty,max=2000"`
	Priority       *Priority            `json:"priority,omitempty" validate:"omitempty,oneof=alta media baixa"`
	Status         *Status              `json:"status,omitempty" validate:"omitempty,oneof=aguardando em_andamento aguardando_peca concluido entregue cancelado"`
	CategoryFields *map[string]string   `json:"category_specific_fields,omitempty"`
	Items          *[]OrderItemInput    `json:"items,omitempty" validate:"omitempty,dive"`
	PaymentInfo    *finance.PaymentInfo `json:"payment_info,omitempty"`
}

type ListOrdersRequest struct {
	Status *Status `json:"status,omitempty"`
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
