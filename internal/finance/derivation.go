package finance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// OrderSource loads a just-completed order fresh from storage. The deriver
// never trusts in-memory copies held by the caller; by the time an order
// completes, its client or items may have changed under the caller's feet.
type OrderSource interface {
	OrderForDerivation(ctx context.Context, userID, orderID uuid.UUID) (*OrderInfo, error)
}

// OrderInfo is the fully hydrated order view the deriver snapshots.
type OrderInfo struct {
	OrderID        uuid.UUID
	OSNumber       string
	ClientID       *uuid.UUID
	Client         *ClientSnapshot
	Device         string
	Category       string
	SerialNumber   *string
	CategoryFields map[string]string
	Items          []OrderItemInfo
	TotalCost      float64
	TotalSale      float64
	TotalProfit    float64
	CompletedAt    *time.Time
}

type OrderItemInfo struct {
	Name      string
	Type      string
	CostPrice float64
	SalePrice float64
	Quantity  int
}

// Deriver turns a completed order into exactly one revenue transaction.
type Deriver struct {
	logger *slog.Logger
	repo   Repository
	source OrderSource
	now    func() time.Time
}

func NewDeriver(logger *slog.Logger, repo Repository, source OrderSource) *Deriver {
	return &Deriver{logger: logger, repo: repo, source: source, now: time.Now}
}

// CreateFromOrder re-fetches the order and inserts its ledger entry.
// The caller decides what to do with a failure; the order itself has
// already been saved when this runs.
func (d *Deriver) CreateFromOrder(ctx context.Context, userID, orderID uuid.UUID, payment *PaymentInfo) (*Transaction, error) {
	info, err := d.source.OrderForDerivation(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order for derivation: %w", err)
	}

	details := BuildDetails(info, payment)

	clientName := "Cliente não identificado"
	if info.Client != nil {
		clientName = info.Client.Name
	}

	category := CategoryOrdemServico
	tx := Transaction{
		UserID:       userID,
		OrderID:      &info.OrderID,
		ClientID:     info.ClientID,
		Description:  fmt.Sprintf("%s - %s - %s", info.OSNumber, clientName, info.Device),
		Type:         TypeReceita,
		Category:     &category,
		Amount:       info.TotalSale,
		CostAmount:   info.TotalCost,
		ProfitAmount: info.TotalProfit,
		Status:       StatusPendente,
		Details:      &details,
	}

	if payment != nil {
		tx.Status = StatusPago
		now := d.now()
		tx.PaidAt = &now
		tx.PaymentMethod = &payment.Method
	}

	id, err := d.repo.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("insert derived transaction: %w", err)
	}

	created, err := d.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("reload derived transaction: %w", err)
	}

	d.logger.Info("derived transaction from order",
		slog.String("order_id", orderID.String()),
		slog.String("transaction_id", id.String()),
		slog.String("status", string(created.Status)),
	)
	return created, nil
}

// BuildDetails assembles the immutable snapshot document for a derived
// transaction. Margin is formatted to two decimals; a zero-sale order
// reports "0" rather than dividing by zero.
func BuildDetails(info *OrderInfo, payment *PaymentInfo) Details {
	items := make([]ItemSnapshot, 0, len(info.Items))
	var totals TotalsSnapshot
	for _, item := range info.Items {
		qty := float64(item.Quantity)
		items = append(items, ItemSnapshot{
			Name:     item.Name,
			Type:     item.Type,
			Cost:     item.CostPrice,
			Sale:     item.SalePrice,
			Quantity: item.Quantity,
			Profit:   (item.SalePrice - item.CostPrice) * qty,
		})
		switch item.Type {
		case "product":
			totals.ProductsCost += item.CostPrice * qty
			totals.ProductsSale += item.SalePrice * qty
		case "service":
			totals.ServicesCost += item.CostPrice * qty
			totals.ServicesSale += item.SalePrice * qty
		}
	}

	totals.TotalCost = info.TotalCost
	totals.TotalSale = info.TotalSale
	totals.TotalProfit = info.TotalProfit
	if info.TotalSale > 0 {
		totals.MarginPercent = fmt.Sprintf("%.2f", info.TotalProfit/info.TotalSale*100)
	} else {
		totals.MarginPercent = "0"
	}

	details := Details{
		SchemaVersion: 1,
		Client:        info.Client,
		Device: &DeviceSnapshot{
			Name:           info.Device,
			Category:       info.Category,
			SerialNumber:   info.SerialNumber,
			CategoryFields: info.CategoryFields,
		},
		Items:       items,
		Totals:      &totals,
		CompletedAt: info.CompletedAt,
	}
	if payment != nil {
		pd := payment.Details
		details.Payment = &pd
	}
	return details
}
