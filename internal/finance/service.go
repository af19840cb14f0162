package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oficina-erp/oficina-erp/internal/shared"
)

// DashboardInvalidator drops cached dashboard aggregates after a write.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	logger    *slog.Logger
	repo      Repository
	dashboard DashboardInvalidator
	now       func() time.Time
}

func NewService(logger *slog.Logger, repo Repository, dashboard DashboardInvalidator) *Service {
	return &Service{logger: logger, repo: repo, dashboard: dashboard, now: time.Now}
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

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*Transaction, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	status := StatusPendente
	if req.Status != nil {
		status = *req.Status
	}

	tx := Transaction{
		UserID:        userID,
		ClientID:      req.ClientID,
		Description:   req.Description,
		Type:          req.Type,
		Category:      req.Category,
		Amount:        req.Amount,
		CostAmount:    req.CostAmount,
		Status:        status,
		PaymentMethod: req.PaymentMethod,
		DueDate:       req.DueDate,
	}

	// Profit is only meaningful on the revenue side. Expenses carry
	// their cost in amount and keep profit at zero.
	if req.Type == TypeReceita {
		tx.ProfitAmount = req.Amount - req.CostAmount
	}

	if status == StatusPago {
		now := s.now()
		tx.PaidAt = &now
	}

	id, err := s.repo.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.bumpDashboard(ctx)

	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateTransactionRequest) (*Transaction, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.PaymentMethod != nil {
		updates["payment_method"] = *req.PaymentMethod
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	amount := existing.Amount
	costAmount := existing.CostAmount
	if req.Amount != nil {
		amount = *req.Amount
		updates["amount"] = amount
	}
	if req.CostAmount != nil {
		costAmount = *req.CostAmount
		updates["cost_amount"] = costAmount
	}
	if (req.Amount != nil || req.CostAmount != nil) && existing.Type == TypeReceita {
		updates["profit_amount"] = amount - costAmount
	}

	if req.Status != nil && *req.Status != existing.Status {
		updates["status"] = *req.Status
		if *req.Status == StatusPago && existing.PaidAt == nil {
			updates["paid_at"] = s.now()
		}
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, userID, id, updates); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	s.bumpDashboard(ctx)

	return s.repo.Get(ctx, userID, id)
}

// MarkPaid settles a pending transaction, stamping paid_at once and
// merging the payment breakdown into the stored snapshot.
func (s *Service) MarkPaid(ctx context.Context, userID, id uuid.UUID, req MarkPaidRequest) (*Transaction, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	updates := map[string]interface{}{
		"status":         StatusPago,
		"payment_method": req.PaymentMethod,
	}
	if existing.PaidAt == nil {
		updates["paid_at"] = s.now()
	}

	if req.PaymentDetails != nil {
		details := Details{SchemaVersion: 1}
		if existing.Details != nil {
			details = *existing.Details
		}
		details.Payment = req.PaymentDetails
		raw, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("marshal details: %w", err)
		}
		updates["details"] = raw
	}

	if err := s.repo.Update(ctx, userID, id, updates); err != nil {
		return nil, fmt.Errorf("mark transaction paid: %w", err)
	}

	s.bumpDashboard(ctx)

	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, req ListTransactionsRequest) ([]Transaction, int, error) {
	if err := shared.Validate(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, userID, req)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.bumpDashboard(ctx)
	return nil
}

func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	txs, err := s.repo.All(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load transactions: %w", err)
	}
	return ComputeSummary(txs, s.now()), nil
}

func (s *Service) Series(ctx context.Context, userID uuid.UUID, months int) ([]MonthPoint, error) {
	txs, err := s.repo.All(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return MonthlySeries(txs, s.now(), months), nil
}
