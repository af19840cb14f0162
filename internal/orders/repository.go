package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*Order, error)
	List(ctx context.Context, userID uuid.UUID, req ListOrdersRequest) ([]Order, int, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	Create(ctx context.Context, order Order) (uuid.UUID, error)
	Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	InsertItem(ctx context.Context, item OrderItem) error
	DeleteItems(ctx context.Context, orderID uuid.UUID) error
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

const orderColumns = `o.id, o.user_id, o.os_number, o.client_id, c.name, o.device, o.category,
	o.serial_number, o.device_password, o.accessories, o.issue, o.internal_notes,
	o.priority, o.status, o.category_specific_fields,
	o.total_cost, o.total_sale, o.total_profit,
	o.completed_at, o.created_at, o.updated_at`

const orderFrom = `FROM orders o LEFT JOIN clients c ON c.id = o.client_id`

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (*Order, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE o.id = $1 AND o.user_id = $2", orderColumns, orderFrom)
	order, err := scanOrder(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []OrderItem{}
	}
	return order, nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, req ListOrdersRequest) ([]Order, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	conditions = append(conditions, fmt.Sprintf("o.user_id = $%d", argPos))
	args = append(args, userID)
	argPos++

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(o.os_number ILIKE $%d OR o.device ILIKE $%d OR c.name ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s %s", orderFrom, whereClause)
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
		%s
		%s
		ORDER BY o.created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, orderFrom, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Order
	var ids []uuid.UUID
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		items, err := r.itemsFor(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range result {
			result[i].Items = items[result[i].ID]
			if result[i].Items == nil {
				result[i].Items = []OrderItem{}
			}
		}
	}

	return result, total, nil
}

func (r *repository) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE user_id = $1", userID).Scan(&count)
	return count, err
}

func (r *repository) Create(ctx context.Context, order Order) (uuid.UUID, error) {
	id := uuid.New()

	fields, err := jsonOrNil(order.CategoryFields)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO orders
			(id, user_id, os_number, client_id, device, category, serial_number,
			 device_password, accessories, issue, internal_notes, priority, status,
			 category_specific_fields, total_cost, total_sale, total_profit,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
	`,
		id, order.UserID, order.OSNumber, uuidOrNil(order.ClientID),
		order.Device, order.Category, textOrNil(order.SerialNumber),
		textOrNil(order.DevicePassword), textOrNil(order.Accessories),
		order.Issue, textOrNil(order.InternalNotes), order.Priority, order.Status,
		fields, order.TotalCost, order.TotalSale, order.TotalProfit,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) error {
	query := "UPDATE orders SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{
		"client_id", "device", "category", "serial_number", "device_password",
		"accessories", "issue", "internal_notes", "priority", "status",
		"category_specific_fields", "total_cost", "total_sale", "total_profit",
		"completed_at",
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
	tag, err := r.db.Exec(ctx, "DELETE FROM orders WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertItem(ctx context.Context, item OrderItem) error {
	id := item.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO order_items
			(id, order_id, item_type, item_id, name, cost_price, sale_price, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`,
		id, item.OrderID, item.Ref.Kind, uuidOrNil(item.Ref.CatalogID),
		item.Name, item.CostPrice, item.SalePrice, item.Quantity,
	)
	return err
}

func (r *repository) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID)
	return err
}

func (r *repository) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, item_type, item_id, name, cost_price, sale_price, quantity, created_at
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY created_at
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]OrderItem)
	for rows.Next() {
		var item OrderItem
		var catalogID pgtype.UUID
		var costPrice, salePrice pgtype.Numeric
		var createdAt pgtype.Timestamptz

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.Ref.Kind, &catalogID,
			&item.Name, &costPrice, &salePrice, &item.Quantity, &createdAt,
		)
		if err != nil {
			return nil, err
		}

		if catalogID.Valid {
			val := uuid.UUID(catalogID.Bytes)
			item.Ref.CatalogID = &val
		}
		if costPrice.Valid {
			f, _ := costPrice.Float64Value()
			item.CostPrice = f.Float64
		}
		if salePrice.Valid {
			f, _ := salePrice.Float64Value()
			item.SalePrice = f.Float64
		}
		if createdAt.Valid {
			item.CreatedAt = createdAt.Time
		}

		result[item.OrderID] = append(result[item.OrderID], item)
	}

	return result, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var clientID pgtype.UUID
	var clientName, serialNumber, devicePassword, accessories, internalNotes pgtype.Text
	var categoryFields []byte
	var totalCost, totalSale, totalProfit pgtype.Numeric
	var completedAt, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&o.ID, &o.UserID, &o.OSNumber, &clientID, &clientName, &o.Device, &o.Category,
		&serialNumber, &devicePassword, &accessories, &o.Issue, &internalNotes,
		&o.Priority, &o.Status, &categoryFields,
		&totalCost, &totalSale, &totalProfit,
		&completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clientID.Valid {
		val := uuid.UUID(clientID.Bytes)
		o.ClientID = &val
	}
	if clientName.Valid {
		o.ClientName = &clientName.String
	}
	if serialNumber.Valid {
		o.SerialNumber = &serialNumber.String
	}
	if devicePassword.Valid {
		o.DevicePassword = &devicePassword.String
	}
	if accessories.Valid {
		o.Accessories = &accessories.String
	}
	if internalNotes.Valid {
		o.InternalNotes = &internalNotes.String
	}
	if len(categoryFields) > 0 {
		if err := json.Unmarshal(categoryFields, &o.CategoryFields); err != nil {
			return nil, fmt.Errorf("unmarshal category fields: %w", err)
		}
	}
	if totalCost.Valid {
		f, _ := totalCost.Float64Value()
		o.TotalCost = f.Float64
	}
	if totalSale.Valid {
		f, _ := totalSale.Float64Value()
		o.TotalSale = f.Float64
	}
	if totalProfit.Valid {
		f, _ := totalProfit.Float64Value()
		o.TotalProfit = f.Float64
	}
	if completedAt.Valid {
		o.CompletedAt = &completedAt.Time
	}
	if createdAt.Valid {
		o.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		o.UpdatedAt = updatedAt.Time
	}

	return &o, nil
}

func jsonOrNil(m map[string]string) (interface{}, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal category fields: %w", err)
	}
	return raw, nil
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
