package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

type payerProfileRepo struct {
	db *sqlx.DB
}

// NewPayerProfileRepo creates a new PostgreSQL-backed PayerProfileRepository.
func NewPayerProfileRepo(db *sqlx.DB) port.PayerProfileRepository {
	return &payerProfileRepo{db: db}
}

func (r *payerProfileRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.PayerProfile, error) {
	var p domain.PayerProfile
	err := r.db.GetContext(ctx, &p, "SELECT * FROM payer_profiles WHERE tenant_id = $1", tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("payerProfileRepo.GetByTenant: %w", err)
	}
	return &p, nil
}
