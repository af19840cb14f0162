package products

import (
	"context"
	"fmt"
	"log/slog"

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
}

func NewService(logger *slog.Logger, repo Repository, dashboard DashboardInvalidator) *Service {
	return &Service{logger: logger, repo: repo, dashboard: dashboard}
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

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*Product, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	product := Product{
		UserID:    userID,
		Name:      req.Name,
		SKU:       req.SKU,
		Category:  req.Category,
		CostPrice: req.CostPrice,
		SalePrice: req.SalePrice,
		Stock:     req.Stock,
		MinStock:  req.MinStock,
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.bumpDashboard(ctx)

	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateProductRequest) (*Product, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.SalePrice != nil {
		updates["sale_price"] = *req.SalePrice
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.MinStock != nil {
		updates["min_stock"] = *req.MinStock
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, userID, id, updates); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.bumpDashboard(ctx)

	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Product, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, userID, req)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.bumpDashboard(ctx)
	return nil
}
