package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("company settings not found")

type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*CompanySettings, error)
	Upsert(ctx context.Context, s CompanySettings) error
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

func (r *repository) Get(ctx context.Context, userID uuid.UUID) (*CompanySettings, error) {
	var s CompanySettings
	var razaoSocial, nomeFantasia, cnpj, inscricaoEstadual, telefone, email, endereco pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, razao_social, nome_fantasia, cnpj, inscricao_estadual,
			telefone, email, endereco, created_at, updated_at
		FROM company_settings
		WHERE user_id = $1
	`, userID).Scan(
		&s.ID, &s.UserID, &razaoSocial, &nomeFantasia, &cnpj, &inscricaoEstadual,
		&telefone, &email, &endereco, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.RazaoSocial = textPtr(razaoSocial)
	s.NomeFantasia = textPtr(nomeFantasia)
	s.CNPJ = textPtr(cnpj)
	s.InscricaoEstadual = textPtr(inscricaoEstadual)
	s.Telefone = textPtr(telefone)
	s.Email = textPtr(email)
	s.Endereco = textPtr(endereco)
	if createdAt.Valid {
		s.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		s.UpdatedAt = updatedAt.Time
	}
	return &s, nil
}

func (r *repository) Upsert(ctx context.Context, s CompanySettings) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO company_settings
			(id, user_id, razao_social, nome_fantasia, cnpj, inscricao_estadual,
			 telefone, email, endereco, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			razao_social = EXCLUDED.razao_social,
			nome_fantasia = EXCLUDED.nome_fantasia,
			cnpj = EXCLUDED.cnpj,
			inscricao_estadual = EXCLUDED.inscricao_estadual,
			telefone = EXCLUDED.telefone,
			email = EXCLUDED.email,
			endereco = EXCLUDED.endereco,
			updated_at = NOW()
	`,
		uuid.New(), s.UserID, textOrNil(s.RazaoSocial), textOrNil(s.NomeFantasia),
		textOrNil(s.CNPJ), textOrNil(s.InscricaoEstadual), textOrNil(s.Telefone),
		textOrNil(s.Email), textOrNil(s.Endereco),
	)
	return err
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func textOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
