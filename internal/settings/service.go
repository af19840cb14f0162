package settings

import (
	"context"
	"errors"
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

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CompanySettings, error) {
	return s.repo.Get(ctx, userID)
}

// Save upserts the user's settings; a merge with existing values keeps
// fields the request left out.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, req UpsertSettingsRequest) (*CompanySettings, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	// Only a missing row counts as a first save; any other load
	// failure aborts before the merge can overwrite stored fields.
	current := CompanySettings{UserID: userID}
	existing, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		current = *existing
	case errors.Is(err, ErrNotFound):
	default:
		return nil, fmt.Errorf("load company settings: %w", err)
	}

	if req.RazaoSocial != nil {
		current.RazaoSocial = req.RazaoSocial
	}
	if req.NomeFantasia != nil {
		current.NomeFantasia = req.NomeFantasia
	}
	if req.CNPJ != nil {
		current.CNPJ = req.CNPJ
	}
	if req.InscricaoEstadual != nil {
		current.InscricaoEstadual = req.InscricaoEstadual
	}
	if req.Telefone != nil {
		current.Telefone = req.Telefone
	}
	if req.Email != nil {
		current.Email = req.Email
	}
	if req.Endereco != nil {
		current.Endereco = req.Endereco
	}

	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, fmt.Errorf("save company settings: %w", err)
	}

	return s.repo.Get(ctx, userID)
}
