package settings

import (
	"time"

	"github.com/google/uuid"
)

// CompanySettings holds the shop's letterhead data, one row per user.
type CompanySettings struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	RazaoSocial       *string   `json:"razao_social,omitempty" db:"razao_social"`
	NomeFantasia      *string   `json:"nome_fantasia,omitempty" db:"nome_fantasia"`
	CNPJ              *string   `json:"cnpj,omitempty" db:"cnpj"`
	InscricaoEstadual *string   `json:"inscricao_estadual,omitempty" db:"inscricao_estadual"`
	Telefone          *string   `json:"telefone,omitempty" db:"telefone"`
	Email             *string   `json:"email,omitempty" db:"email"`
	Endereco          *string   `json:"endereco,omitempty" db:"endereco"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

type UpsertSettingsRequest struct {
	RazaoSocial       *string `json:"razao_social,omitempty" validate:"omitempty,max=200"`
	NomeFantasia      *string `json:"nome_fantasia,omitempty" validate:"omitempty,max=200"`
	CNPJ              *string `json:"cnpj,omitempty" validate:"omitempty,max=20"`
	InscricaoEstadual *string `json:"inscricao_estadual,omitempty" validate:"omitempty,max=30"`
	Telefone          *string `json:"telefone,omitempty" validate:"omitempty,max=30"`
	Email             *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Endereco          *string `json:"endereco,omitempty" validate:"omitempty,max=500"`
}
