package orders

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAguardando     Status = "aguardando"
	StatusEmAndamento    Status = "em_andamento"
	StatusAguardandoPeca Status = "aguardando_peca"
	StatusConcluido      Status = "concluido"
	StatusEntregue       Status = "entregue"
	StatusCancelado      Status = "cancelado"
)

// Completed reports whether a status counts as billable-terminal.
// Both concluido and entregue trigger ledger derivation.
func (s Status) Completed() bool {
	return s == StatusConcluido || s == StatusEntregue
}

type Priority string

const (
	PriorityAlta  Priority = "alta"
	PriorityMedia Priority = "media"
	PriorityBaixa Priority = "baixa"
)

type DeviceCategory string

const (
	CategorySmartphone DeviceCategory = "smartphone"
	CategoryTablet     DeviceCategory = "tablet"
	CategoryNotebook   DeviceCategory = "notebook"
	CategoryDesktop    DeviceCategory = "desktop"
	CategoryPrinter    DeviceCategory = "printer"
	CategoryMonitor    DeviceCategory = "monitor"
	CategoryOther      DeviceCategory = "other"
)

type Order struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	UserID         uuid.UUID         `json:"user_id" db:"user_id"`
	OSNumber       string            `json:"os_number" db:"os_number"`
	ClientID       *uuid.UUID        `json:"client_id,omitempty" db:"client_id"`
	ClientName     *string           `json:"client_name,omitempty" db:"-"`
	Device         string            `json:"device" db:"device"`
	Category       DeviceCategory    `json:"category" db:"category"`
	SerialNumber   *string           `json:"serial_number,omitempty" db:"serial_number"`
	DevicePassword *string           `json:"device_password,omitempty" db:"device_password"`
	Accessories    *string           `json:"accessories,omitempty" db:"accessories"`
	Issue          string            `json:"issue" db:"issue"`
	InternalNotes  *string           `json:"internal_notes,omitempty" db:"internal_notes"`
	Priority       Priority          `json:"priority" db:"priority"`
	Status         Status            `json:"status" db:"status"`
	CategoryFields map[string]string `json:"category_specific_fields,omitempty" db:"category_specific_fields"`
	TotalCost      float64           `json:"total_cost" db:"total_cost"`
	TotalSale      float64           `json:"total_sale" db:"total_sale"`
	TotalProfit    float64           `json:"total_profit" db:"total_profit"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
	Items          []OrderItem       `json:"items" db:"-"`
}

// ItemRef identifies what a line item points at. A catalog-backed item
// carries the product or service id; a manual item carries none.
type ItemRef struct {
	Kind      string     `json:"kind"`
	CatalogID *uuid.UUID `json:"catalog_id,omitempty"`
}

func (r ItemRef) Manual() bool { return r.CatalogID == nil }

// OrderItem snapshots name and prices at the time it was added. Catalog
// price changes never reach back into existing orders.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	Ref       ItemRef   `json:"ref"`
	Name      string    `json:"name" db:"name"`
	CostPrice float64   `json:"cost_price" db:"cost_price"`
	SalePrice float64   `json:"sale_price" db:"sale_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Totals recomputes the order aggregates from a line-item set.
func Totals(items []OrderItem) (cost, sale, profit float64) {
	for _, item := range items {
		qty := float64(item.Quantity)
		cost += item.CostPrice * qty
		sale += item.SalePrice * qty
	}
	return cost, sale, sale - cost
}
