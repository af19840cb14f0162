package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oficina-erp/oficina-erp/internal/finance"
	"github.com/oficina-erp/oficina-erp/internal/shared"
)

// LedgerDeriver creates the revenue transaction for a just-completed order.
type LedgerDeriver interface {
	CreateFromOrder(ctx context.Context, userID, orderID uuid.UUID, payment *finance.PaymentInfo) (*finance.Transaction, error)
}

// DashboardInvalidator drops cached dashboard aggregates after a write.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	logger    *slog.Logger
	repo      Repository
	deriver   LedgerDeriver
	dashboard DashboardInvalidator
	now       func() time.Time
}

func NewService(logger *slog.Logger, repo Repository, deriver LedgerDeriver, dashboard DashboardInvalidator) *Service {
	return &Service{logger: logger, repo: repo, deriver: deriver, dashboard: dashboard, now: time.Now}
}

// A failed bump only delays the refresh until the cache TTL expires.
func (s *Service) bumpDashboard(ctx context.Context) {
	if s.dashboard == nil {
		return
	}
	if err := s.dashboard.Invalidate(ctx); err != nil {
		s.logger.Warn("dashboard cache bump failed", slog.Any("error", err))
	}
}

// UpdateResult separates the order save from the ledger derivation. An
// update that completed the order but failed to write its transaction
// still succeeds; LedgerErr carries the failure for callers that care.
type UpdateResult struct {
	Order     *Order
	LedgerErr error
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*Order, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	// Count-and-format numbering. Two concurrent creates can read the
	// same count and collide; accepted at single-shop volume.
	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	osNumber := fmt.Sprintf("OS-%04d", count+1)

	items := buildItems(req.Items)
	cost, sale, profit := Totals(items)

	order := Order{
		UserID:         userID,
		OSNumber:       osNumber,
		ClientID:       req.ClientID,
		Device:         req.Device,
		Category:       req.Category,
		SerialNumber:   req.SerialNumber,
		DevicePassword: req.DevicePassword,
		Accessories:    req.Accessories,
		Issue:          req.Issue,
		InternalNotes:  req.InternalNotes,
		Priority:       req.Priority,
		Status:         StatusAguardando,
		CategoryFields: req.CategoryFields,
		TotalCost:      cost,
		TotalSale:      sale,
		TotalProfit:    profit,
	}

	id, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Each item insert is an independent write. A failure here leaves
	// the order row without its full item set; no rollback.
	for _, item := range items {
		item.OrderID = id
		if err := s.repo.InsertItem(ctx, item); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	s.bumpDashboard(ctx)

	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateOrderRequest) (*UpdateResult, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	updates := make(map[string]interface{})
	if req.ClientID != nil {
		updates["client_id"] = *req.ClientID
	}
	if req.Device != nil {
		updates["device"] = *req.Device
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = *req.SerialNumber
	}
	if req.DevicePassword != nil {
		updates["device_password"] = *req.DevicePassword
	}
	if req.Accessories != nil {
		updates["accessories"] = *req.Accessories
	}
	if req.Issue != nil {
		updates["issue"] = *req.Issue
	}
	if req.InternalNotes != nil {
		updates["internal_notes"] = *req.InternalNotes
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.CategoryFields != nil {
		raw, err := jsonOrNil(*req.CategoryFields)
		if err != nil {
			return nil, err
		}
		updates["category_specific_fields"] = raw
	}

	// Completing means the new status is billable-terminal and the
	// previous one was not. Re-saving an already completed order must
	// not re-stamp completed_at or re-derive the transaction.
	completing := false
	if req.Status != nil {
		updates["status"] = *req.Status
		if req.Status.Completed() && !existing.Status.Completed() {
			completing = true
			updates["completed_at"] = s.now()
		}
	}

	var items []OrderItem
	if req.Items != nil {
		items = buildItems(*req.Items)
		cost, sale, profit := Totals(items)
		updates["total_cost"] = cost
		updates["total_sale"] = sale
		updates["total_profit"] = profit
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, userID, id, updates); err != nil {
			return nil, fmt.Errorf("update order: %w", err)
		}
	}

	// Full replace of the item set, not a diff. Delete and reinsert are
	// independent writes; a failure between them leaves the order with
	// a partial item set.
	if req.Items != nil {
		if err := s.repo.DeleteItems(ctx, id); err != nil {
			return nil, fmt.Errorf("delete order items: %w", err)
		}
		for _, item := range items {
			item.OrderID = id
			if err := s.repo.InsertItem(ctx, item); err != nil {
				return nil, fmt.Errorf("insert order item: %w", err)
			}
		}
	}

	result := &UpdateResult{}

	if completing {
		if _, err := s.deriver.CreateFromOrder(ctx, userID, id, req.PaymentInfo); err != nil {
			// The order save already succeeded; the ledger gap is
			// reported, not rolled back.
			s.logger.Error("ledger derivation failed",
				slog.Any("error", err),
				slog.String("order_id", id.String()),
			)
			result.LedgerErr = err
		}
	}

	s.bumpDashboard(ctx)

	order, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	result.Order = order
	return result, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Order, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, req ListOrdersRequest) ([]Order, int, error) {
	if err := shared.Validate(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, userID, req)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	s.bumpDashboard(ctx)
	return nil
}

func buildItems(inputs []OrderItemInput) []OrderItem {
	items := make([]OrderItem, 0, len(inputs))
	for _, in := range inputs {
		ref := ItemRef{Kind: in.Kind}
		if in.Kind != "manual" {
			ref.CatalogID = in.CatalogID
		}
		items = append(items, OrderItem{
			Ref:       ref,
			Name:      in.Name,
			CostPrice: in.CostPrice,
			SalePrice: in.SalePrice,
			Quantity:  in.Quantity,
		})
	}
	return items
}
