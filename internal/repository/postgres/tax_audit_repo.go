package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

type taxAuditRepo struct {
	db *sqlx.DB
}

// NewTaxAuditRepo creates a new PostgreSQL-backed TaxAuditRepository.
func NewTaxAuditRepo(db *sqlx.DB) port.TaxAuditRepository {
	return &taxAuditRepo{db: db}
}

func (r *taxAuditRepo) Create(ctx context.Context, entry *domain.TaxFormAuditEntry) error {
	if err := insertAuditEntry(ctx, r.db, entry); err != nil {
		return fmt.Errorf("taxAuditRepo.Create: %w", err)
	}
	return nil
}

func (r *taxAuditRepo) ListByForm(ctx context.Context, tenantID, formID uuid.UUID, offset, limit int) ([]domain.TaxFormAuditEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM tax_form_audit_log WHERE tenant_id = $1 AND form_id = $2`,
		tenantID, formID)
	if err != nil {
		return nil, 0, fmt.Errorf("taxAuditRepo.ListByForm count: %w", err)
	}

	var entries []domain.TaxFormAuditEntry
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM tax_form_audit_log
		 WHERE tenant_id = $1 AND form_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		tenantID, formID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("taxAuditRepo.ListByForm: %w", err)
	}
	return entries, total, nil
}

func (r *taxAuditRepo) ListByPayee(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, offset, limit int) ([]domain.TaxFormAuditEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM tax_form_audit_log
		 WHERE tenant_id = $1 AND payee_type = $2 AND payee_id = $3`,
		tenantID, payeeType, payeeID)
	if err != nil {
		return nil, 0, fmt.Errorf("taxAuditRepo.ListByPayee count: %w", err)
	}

	var entries []domain.TaxFormAuditEntry
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM tax_form_audit_log
		 WHERE tenant_id = $1 AND payee_type = $2 AND payee_id = $3
		 ORDER BY created_at DESC
		 LIMIT $4 OFFSET $5`,
		tenantID, payeeType, payeeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("taxAuditRepo.ListByPayee: %w", err)
	}
	return entries, total, nil
}
