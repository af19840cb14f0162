package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oficina-erp/oficina-erp/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateServiceRequest) (*CatalogService, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	svc := CatalogService{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		CostPrice:   req.CostPrice,
		SalePrice:   req.SalePrice,
	}

	id, err := s.repo.Create(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateServiceRequest) (*CatalogService, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.SalePrice != nil {
		updates["sale_price"] = *req.SalePrice
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, userID, id, updates); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*CatalogService, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, req ListServicesRequest) ([]CatalogService, int, error) {
	return s.repo.List(ctx, userID, req)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
