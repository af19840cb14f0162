package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	OpenOrders(ctx context.Context, userID uuid.UUID) (int, error)
	ActiveClients(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	StockTotals(ctx context.Context, userID uuid.UUID) (stock, lowStock int, err error)
	RevenueWindow(ctx context.Context, userID uuid.UUID, from, to time.Time) (amount, cost float64, err error)
	RecentOrders(ctx context.Context, userID uuid.UUID, limit int) ([]RecentOrder, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db dbtx
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

// closedStatuses take an order off the open-work count. A cancelled
// order still counts as open until it is resolved.
var closedStatuses = []string{"concluido", "entregue"}

func (r *repository) OpenOrders(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE user_id = $1 AND status <> ALL($2)
	`, userID, closedStatuses).Scan(&count)
	return count, err
}

func (r *repository) ActiveClients(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT client_id)
		FROM orders
		WHERE user_id = $1 AND client_id IS NOT NULL AND created_at >= $2
	`, userID, since).Scan(&count)
	return count, err
}

func (r *repository) StockTotals(ctx context.Context, userID uuid.UUID) (int, int, error) {
	var stock, lowStock int
	// Strict comparison: a product sitting exactly at min_stock is not
	// low yet.
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(stock), 0),
			COUNT(*) FILTER (WHERE stock < min_stock)
		FROM products
		WHERE user_id = $1
	`, userID).Scan(&stock, &lowStock)
	return stock, lowStock, err
}

func (r *repository) RevenueWindow(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, float64, error) {
	var amount, cost pgtype.Numeric
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(cost_amount), 0)
		FROM financial_transactions
		WHERE user_id = $1 AND type = 'receita' AND created_at >= $2 AND created_at < $3
	`, userID, from, to).Scan(&amount, &cost)
	if err != nil {
		return 0, 0, err
	}
	a, _ := amount.Float64Value()
	c, _ := cost.Float64Value()
	return a.Float64, c.Float64, nil
}

func (r *repository) RecentOrders(ctx context.Context, userID uuid.UUID, limit int) ([]RecentOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.os_number, c.name, o.device, o.status, o.created_at
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RecentOrder
	for rows.Next() {
		var order RecentOrder
		var clientName pgtype.Text
		if err := rows.Scan(&order.ID, &order.OSNumber, &clientName, &order.Device, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		if clientName.Valid {
			order.ClientName = &clientName.String
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
