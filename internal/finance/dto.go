package finance

import (
	"time"

	"github.com/google/uuid"
)

type CreateTransactionRequest struct {
	Description   string             `json:"description" validate:"required,max=300"`
	Type          TransactionType    `json:"type" validate:"required,oneof=receita despesa"`
	Category      *string            `json:"category,omitempty" validate:"omitempty,max=100"`
	ClientID      *uuid.UUID         `json:"client_id,omitempty"`
	Amount        float64            `json:"amount" validate:"gte=0"`
	CostAmount    float64            `json:"cost_amount" validate:"gte=0"`
	Status        *TransactionStatus `json:"status,omitempty" validate:"omitempty,oneof=pendente pago cancelado"`
	PaymentMethod *string            `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
}

type UpdateTransactionRequest struct {
	Description   *string            `json:"description,omitempty" validate:"omitempty,max=300"`
	Category      *string            `json:"category,omitempty" validate:"omitempty,max=100"`
	Amount        *float64           `json:"amount,omitempty" validate:"omitempty,gte=0"`
	CostAmount    *float64           `json:"cost_amount,omitempty" validate:"omitempty,gte=0"`
	Status        *TransactionStatus `json:"status,omitempty" validate:"omitempty,oneof=pendente pago cancelado"`
	PaymentMethod *string            `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
}

type MarkPaidRequest struct {
	PaymentMethod  string          `json:"payment_method" validate:"required,max=50"`
	PaymentDetails *PaymentDetails `json:"payment_details,omitempty"`
}

type ListTransactionsRequest struct {
	Type   *TransactionType   `json:"type,omitempty"`
	Status *TransactionStatus `json:"status,omitempty"`
	From   *time.Time         `json:"from,omitempty"`
	To     *time.Time         `json:"to,omitempty"`
	Limit  int                `json:"limit" validate:"gte=0,lte=1000"`
	Offset int                `json:"offset" validate:"gte=0"`
}
