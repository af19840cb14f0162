package finance

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeReceita TransactionType = "receita"
	TypeDespesa TransactionType = "despesa"
)

type TransactionStatus string

const (
	StatusPendente  TransactionStatus = "pendente"
	StatusPago      TransactionStatus = "pago"
	StatusCancelado TransactionStatus = "cancelado"
)

// CategoryOrdemServico marks transactions derived from completed repair orders.
const CategoryOrdemServico = "ordem_servico"

type Transaction struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	UserID        uuid.UUID         `json:"user_id" db:"user_id"`
	OrderID       *uuid.UUID        `json:"order_id,omitempty" db:"order_id"`
	ClientID      *uuid.UUID        `json:"client_id,omitempty" db:"client_id"`
	Description   string            `json:"description" db:"description"`
	Type          TransactionType   `json:"type" db:"type"`
	Category      *string           `json:"category,omitempty" db:"category"`
	Amount        float64           `json:"amount" db:"amount"`
	CostAmount    float64           `json:"cost_amount" db:"cost_amount"`
	ProfitAmount  float64           `json:"profit_amount" db:"profit_amount"`
	Status        TransactionStatus `json:"status" db:"status"`
	PaymentMethod *string           `json:"payment_method,omitempty" db:"payment_method"`
	DueDate       *time.Time        `json:"due_date,omitempty" db:"due_date"`
	PaidAt        *time.Time        `json:"paid_at,omitempty" db:"paid_at"`
	Details       *Details          `json:"details,omitempty" db:"details"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// PaymentInfo carries how a completed order was settled. It is embedded
// into the derived transaction and never stored on the order itself.
type PaymentInfo struct {
	Method  string         `json:"payment_method" validate:"required,max=50"`
	Details PaymentDetails `json:"payment_details"`
}

type PaymentDetails struct {
	MethodLabel    string  `json:"method_label"`
	Installments   *int    `json:"installments,omitempty"`
	CardBrand      *string `json:"card_brand,omitempty"`
	CardLastDigits *string `json:"card_last_digits,omitempty"`
	PixKey         *string `json:"pix_key,omitempty"`
	BankName       *string `json:"bank_name,omitempty"`
	CheckNumber    *string `json:"check_number,omitempty"`
	DueDate        *string `json:"due_date,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// Details is the denormalized snapshot attached to a transaction at
// creation time. It is an audit trail: it is never rebuilt from live
// joins, and later edits to the source order do not touch it.
type Details struct {
	SchemaVersion int             `json:"schema_version"`
	Client        *ClientSnapshot `json:"client"`
	Device        *DeviceSnapshot `json:"device,omitempty"`
	Items         []ItemSnapshot  `json:"items,omitempty"`
	Totals        *TotalsSnapshot `json:"totals,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Payment       *PaymentDetails `json:"payment,omitempty"`
}

type ClientSnapshot struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	CPF   *string `json:"cpf"`
}

type DeviceSnapshot struct {
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	SerialNumber   *string           `json:"serial_number"`
	CategoryFields map[string]string `json:"category_specific_fields,omitempty"`
}

type ItemSnapshot struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Cost     float64 `json:"cost"`
	Sale     float64 `json:"sale"`
	Quantity int     `json:"quantity"`
	Profit   float64 `json:"profit"`
}

type TotalsSnapshot struct {
	ProductsCost  float64 `json:"products_cost"`
	ProductsSale  float64 `json:"products_sale"`
	ServicesCost  float64 `json:"services_cost"`
	ServicesSale  float64 `json:"services_sale"`
	TotalCost     float64 `json:"total_cost"`
	TotalSale     float64 `json:"total_sale"`
	TotalProfit   float64 `json:"total_profit"`
	MarginPercent string  `json:"margin_percent"`
}
