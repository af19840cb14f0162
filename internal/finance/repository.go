package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("transaction not found")
)

type Repository interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, userID uuid.UUID, req ListTransactionsRequest) ([]Transaction, int, error)
	All(ctx context.Context, userID uuid.UUID) ([]Transaction, error)
	Create(ctx context.Context, tx Transaction) (uuid.UUID, error)
	Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
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

const transactionColumns = `id, user_id, order_id, client_id, description, type, category,
	amount, cost_amount, profit_amount, status, payment_method, due_date, paid_at, details,
	created_at, updated_at`

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	query := fmt.Sprintf("SELECT %s FROM financial_transactions WHERE id = $1 AND user_id = $2", transactionColumns)
	t, err := scanTransaction(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, req ListTransactionsRequest) ([]Transaction, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
	args = append(args, userID)
	argPos++

	if req.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *req.Type)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *req.From)
		argPos++
	}
	if req.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *req.To)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM financial_transactions %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM financial_transactions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, transactionColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *t)
	}

	return result, total, rows.Err()
}

func (r *repository) All(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM financial_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, transactionColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}

	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, t Transaction) (uuid.UUID, error) {
	id := uuid.New()

	var details interface{}
	if t.Details != nil {
		raw, err := json.Marshal(t.Details)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal details: %w", err)
		}
		details = raw
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO financial_transactions
			(id, user_id, order_id, client_id, description, type, category,
			 amount, cost_amount, profit_amount, status, payment_method,
			 due_date, paid_at, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`,
		id, t.UserID, uuidOrNil(t.OrderID), uuidOrNil(t.ClientID),
		t.Description, t.Type, textOrNil(t.Category),
		t.Amount, t.CostAmount, t.ProfitAmount, t.Status,
		textOrNil(t.PaymentMethod), timeOrNil(t.DueDate), timeOrNil(t.PaidAt), details,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) error {
	query := "UPDATE financial_transactions SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{
		"description", "category", "amount", "cost_amount", "profit_amount",
		"status", "payment_method", "due_date", "paid_at", "details",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d", argPos, argPos+1)
	args = append(args, id, userID)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM financial_transactions WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	var orderID, clientID pgtype.UUID
	var category, paymentMethod pgtype.Text
	var amount, costAmount, profitAmount pgtype.Numeric
	var dueDate, paidAt, createdAt, updatedAt pgtype.Timestamptz
	var details []byte

	err := row.Scan(
		&t.ID, &t.UserID, &orderID, &clientID, &t.Description, &t.Type, &category,
		&amount, &costAmount, &profitAmount, &t.Status, &paymentMethod,
		&dueDate, &paidAt, &details, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if orderID.Valid {
		val := uuid.UUID(orderID.Bytes)
		t.OrderID = &val
	}
	if clientID.Valid {
		val := uuid.UUID(clientID.Bytes)
		t.ClientID = &val
	}
	if category.Valid {
		t.Category = &category.String
	}
	if amount.Valid {
		f, _ := amount.Float64Value()
		t.Amount = f.Float64
	}
	if costAmount.Valid {
		f, _ := costAmount.Float64Value()
		t.CostAmount = f.Float64
	}
	if profitAmount.Valid {
		f, _ := profitAmount.Float64Value()
		t.ProfitAmount = f.Float64
	}
	if paymentMethod.Valid {
		t.PaymentMethod = &paymentMethod.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if paidAt.Valid {
		t.PaidAt = &paidAt.Time
	}
	if len(details) > 0 {
		var d Details
		if err := json.Unmarshal(details, &d); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
		t.Details = &d
	}
	if createdAt.Valid {
		t.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		t.UpdatedAt = updatedAt.Time
	}

	return &t, nil
}

func uuidOrNil(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func textOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
