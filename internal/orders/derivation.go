package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oficina-erp/oficina-erp/internal/finance"
)

// DerivationAdapter feeds the ledger deriver a fresh view of a completed
// order straight from storage. It queries on its own rather than reusing
// repository structs so the snapshot never goes through a stale cache.
type DerivationAdapter struct {
	db dbtx
}

func NewDerivationAdapter(pool *pgxpool.Pool) *DerivationAdapter {
	return &DerivationAdapter{db: pool}
}

var _ finance.OrderSource = (*DerivationAdapter)(nil)

func (a *DerivationAdapter) OrderForDerivation(ctx context.Context, userID, orderID uuid.UUID) (*finance.OrderInfo, error) {
	var info finance.OrderInfo
	var clientID pgtype.UUID
	var clientName, clientPhone, clientEmail, clientCPF pgtype.Text
	var serialNumber pgtype.Text
	var categoryFields []byte
	var totalCost, totalSale, totalProfit pgtype.Numeric
	var completedAt pgtype.Timestamptz

	err := a.db.QueryRow(ctx, `
		SELECT o.id, o.os_number, o.client_id, c.name, c.phone, c.email, c.cpf,
			o.device, o.category, o.serial_number, o.category_specific_fields,
			o.total_cost, o.total_sale, o.total_profit, o.completed_at
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		WHERE o.id = $1 AND o.user_id = $2
	`, orderID, userID).Scan(
		&info.OrderID, &info.OSNumber, &clientID, &clientName, &clientPhone, &clientEmail, &clientCPF,
		&info.Device, &info.Category, &serialNumber, &categoryFields,
		&totalCost, &totalSale, &totalProfit, &completedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if clientID.Valid {
		val := uuid.UUID(clientID.Bytes)
		info.ClientID = &val
	}
	if clientName.Valid {
		snapshot := finance.ClientSnapshot{Name: clientName.String}
		if clientPhone.Valid {
			snapshot.Phone = &clientPhone.String
		}
		if clientEmail.Valid {
			snapshot.Email = &clientEmail.String
		}
		if clientCPF.Valid {
			snapshot.CPF = &clientCPF.String
		}
		info.Client = &snapshot
	}
	if serialNumber.Valid {
		info.SerialNumber = &serialNumber.String
	}
	if len(categoryFields) > 0 {
		if err := json.Unmarshal(categoryFields, &info.CategoryFields); err != nil {
			return nil, fmt.Errorf("unmarshal category fields: %w", err)
		}
	}
	if totalCost.Valid {
		f, _ := totalCost.Float64Value()
		info.TotalCost = f.Float64
	}
	if totalSale.Valid {
		f, _ := totalSale.Float64Value()
		info.TotalSale = f.Float64
	}
	if totalProfit.Valid {
		f, _ := totalProfit.Float64Value()
		info.TotalProfit = f.Float64
	}
	if completedAt.Valid {
		info.CompletedAt = &completedAt.Time
	}

	rows, err := a.db.Query(ctx, `
		SELECT item_type, name, cost_price, sale_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item finance.OrderItemInfo
		var costPrice, salePrice pgtype.Numeric
		if err := rows.Scan(&item.Type, &item.Name, &costPrice, &salePrice, &item.Quantity); err != nil {
			return nil, err
		}
		if costPrice.Valid {
			f, _ := costPrice.Float64Value()
			item.CostPrice = f.Float64
		}
		if salePrice.Valid {
			f, _ := salePrice.Float64Value()
			item.SalePrice = f.Float64
		}
		info.Items = append(info.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &info, nil
}
