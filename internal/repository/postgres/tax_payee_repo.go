package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

type taxPayeeRepo struct {
	db *sqlx.DB
}

// NewTaxPayeeRepo creates a new PostgreSQL-backed TaxPayeeRepository.
func NewTaxPayeeRepo(db *sqlx.DB) port.TaxPayeeRepository {
	return &taxPayeeRepo{db: db}
}

const insertTaxPayee = `INSERT INTO tax_payees (
	id, tenant_id, payee_id, payee_type, legal_name, business_name,
	tax_classification, address, email, tin_type, tin_encrypted, tin_last_four,
	w9_certified_at, w9_certified_name, w9_certified_ip,
	e_delivery_consent, e_delivery_consent_at, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9, $10, $11, $12,
	$13, $14, $15,
	$16, $17, $18, $19
)`

func execInsertTaxPayee(ctx context.Context, ext sqlx.ExecerContext, p *domain.TaxPayee) error {
	now := time.Now().UTC()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := ext.ExecContext(ctx, insertTaxPayee,
		p.ID, p.TenantID, p.PayeeID, p.PayeeType, p.LegalName, p.BusinessName,
		p.TaxClassification, p.Address, p.Email, p.TINType, p.TINEncrypted, p.TINLastFour,
		p.W9CertifiedAt, p.W9CertifiedName, p.W9CertifiedIP,
		p.EDeliveryConsent, p.EDeliveryConsentAt, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *taxPayeeRepo) Create(ctx context.Context, payee *domain.TaxPayee) error {
	if err := execInsertTaxPayee(ctx, r.db, payee); err != nil {
		return fmt.Errorf("taxPayeeRepo.Create: %w", err)
	}
	return nil
}

func (r *taxPayeeRepo) Supersede(ctx context.Context, previous, next *domain.TaxPayee) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			`UPDATE tax_payees SET superseded_at = $1, updated_at = $1
			 WHERE id = $2 AND tenant_id = $3 AND superseded_at IS NULL`,
			now, previous.ID, previous.TenantID)
		if err != nil {
			return fmt.Errorf("taxPayeeRepo.Supersede: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrPayeeNotFound
		}
		previous.SupersededAt = &now
		if err := execInsertTaxPayee(ctx, tx, next); err != nil {
			return fmt.Errorf("taxPayeeRepo.Supersede insert: %w", err)
		}
		return nil
	})
}

func (r *taxPayeeRepo) GetActive(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.TaxPayee, error) {
	var p domain.TaxPayee
	err := r.db.GetContext(ctx, &p,
		`SELECT * FROM tax_payees
		 WHERE tenant_id = $1 AND payee_type = $2 AND payee_id = $3 AND superseded_at IS NULL`,
		tenantID, payeeType, payeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPayeeNotFound
		}
		return nil, fmt.Errorf("taxPayeeRepo.GetActive: %w", err)
	}
	return &p, nil
}

func (r *taxPayeeRepo) ListActiveByType(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType) ([]domain.TaxPayee, error) {
	var payees []domain.TaxPayee
	err := r.db.SelectContext(ctx, &payees,
		`SELECT * FROM tax_payees
		 WHERE tenant_id = $1 AND payee_type = $2 AND superseded_at IS NULL
		 ORDER BY payee_id`,
		tenantID, payeeType)
	if err != nil {
		return nil, fmt.Errorf("taxPayeeRepo.ListActiveByType: %w", err)
	}
	return payees, nil
}
