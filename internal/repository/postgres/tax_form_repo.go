package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

type taxFormRepo struct {
	db *sqlx.DB
}

// NewTaxFormRepo creates a new PostgreSQL-backed TaxFormRepository.
func NewTaxFormRepo(db *sqlx.DB) port.TaxFormRepository {
	return &taxFormRepo{db: db}
}

const insertTaxForm = `INSERT INTO tax_forms (
	id, tenant_id, tax_year, form_type, payee_id, payee_type,
	payer_name, payer_tin, payer_address,
	recipient_name, recipient_tin_last_four, recipient_address,
	box_amounts, total_amount_cents, status,
	original_form_id, correction_type, correction_reason,
	created_by, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9,
	$10, $11, $12,
	$13, $14, $15,
	$16, $17, $18,
	$19, $20, $21
)`

func execInsertTaxForm(ctx context.Context, ext sqlx.ExecerContext, f *domain.TaxForm) error {
	now := time.Now().UTC()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = now
	f.UpdatedAt = now
	_, err := ext.ExecContext(ctx, insertTaxForm,
		f.ID, f.TenantID, f.TaxYear, f.FormType, f.PayeeID, f.PayeeType,
		f.PayerName, f.PayerTIN, f.PayerAddress,
		f.RecipientName, f.RecipientTINLastFour, f.RecipientAddress,
		f.BoxAmounts, f.TotalAmountCents, f.Status,
		f.OriginalFormID, f.CorrectionType, f.CorrectionReason,
		f.CreatedBy, f.CreatedAt, f.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "idx_tax_forms_live_original") {
		return domain.ErrFormAlreadyExists
	}
	return err
}

func (r *taxFormRepo) Create(ctx context.Context, form *domain.TaxForm, entry *domain.TaxFormAuditEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := execInsertTaxForm(ctx, tx, form); err != nil {
			if errors.Is(err, domain.ErrFormAlreadyExists) {
				return err
			}
			return fmt.Errorf("taxFormRepo.Create: %w", err)
		}
		entry.FormID = &form.ID
		if err := insertAuditEntry(ctx, tx, entry); err != nil {
			return fmt.Errorf("taxFormRepo.Create: %w", err)
		}
		return nil
	})
}

func (r *taxFormRepo) GetByID(ctx context.Context, tenantID, formID uuid.UUID) (*domain.TaxForm, error) {
	var f domain.TaxForm
	err := r.db.GetContext(ctx, &f,
		"SELECT * FROM tax_forms WHERE id = $1 AND tenant_id = $2", formID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFormNotFound
		}
		return nil, fmt.Errorf("taxFormRepo.GetByID: %w", err)
	}
	return &f, nil
}

func (r *taxFormRepo) FindLiveOriginal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (*domain.TaxForm, error) {
	var f domain.TaxForm
	err := r.db.GetContext(ctx, &f,
		`SELECT * FROM tax_forms
		 WHERE tenant_id = $1 AND payee_type = $2 AND payee_id = $3 AND tax_year = $4
		   AND original_form_id IS NULL AND status <> $5
		 LIMIT 1`,
		tenantID, payeeType, payeeID, year, domain.FormStatusVoided)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFormNotFound
		}
		return nil, fmt.Errorf("taxFormRepo.FindLiveOriginal: %w", err)
	}
	return &f, nil
}

func (r *taxFormRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.FormFilter) ([]domain.TaxForm, int, error) {
	where := []string{"tenant_id = $1", "tax_year = $2"}
	args := []interface{}{tenantID, filter.TaxYear}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.PayeeType != nil {
		args = append(args, *filter.PayeeType)
		where = append(where, fmt.Sprintf("payee_type = $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM tax_forms WHERE "+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("taxFormRepo.List count: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT * FROM tax_forms WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, clause, len(args)-1, len(args))

	var forms []domain.TaxForm
	if err := r.db.SelectContext(ctx, &forms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("taxFormRepo.List: %w", err)
	}
	return forms, total, nil
}

func (r *taxFormRepo) ListByStatus(ctx context.Context, tenantID uuid.UUID, year int, status domain.FormStatus, payeeType *domain.PayeeType) ([]domain.TaxForm, error) {
	query := `SELECT * FROM tax_forms WHERE tenant_id = $1 AND tax_year = $2 AND status = $3`
	args := []interface{}{tenantID, year, status}
	if payeeType != nil {
		query += " AND payee_type = $4"
		args = append(args, *payeeType)
	}
	query += " ORDER BY payee_type, payee_id"

	var forms []domain.TaxForm
	if err := r.db.SelectContext(ctx, &forms, query, args...); err != nil {
		return nil, fmt.Errorf("taxFormRepo.ListByStatus: %w", err)
	}
	return forms, nil
}

func (r *taxFormRepo) CountByStatus(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) ([]domain.FormStatusCount, error) {
	query := `SELECT status, COUNT(*) AS count FROM tax_forms WHERE tenant_id = $1 AND tax_year = $2`
	args := []interface{}{tenantID, year}
	if payeeType != nil {
		query += " AND payee_type = $3"
		args = append(args, *payeeType)
	}
	query += " GROUP BY status"

	var counts []domain.FormStatusCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("taxFormRepo.CountByStatus: %w", err)
	}
	return counts, nil
}

func (r *taxFormRepo) Transition(ctx context.Context, form *domain.TaxForm, from []domain.FormStatus, entry *domain.TaxFormAuditEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		form.UpdatedAt = time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			`UPDATE tax_forms SET
				status = $1, approved_at = $2, approved_by = $3,
				filed_at = $4, irs_confirmation = $5,
				state_filed_at = $6, state_confirmation = $7,
				delivery_method = $8, delivered_at = $9,
				voided_at = $10, void_reason = $11, updated_at = $12
			 WHERE id = $13 AND tenant_id = $14 AND status = ANY($15)`,
			form.Status, form.ApprovedAt, form.ApprovedBy,
			form.FiledAt, form.IRSConfirmation,
			form.StateFiledAt, form.StateConfirmation,
			form.DeliveryMethod, form.DeliveredAt,
			form.VoidedAt, form.VoidReason, form.UpdatedAt,
			form.ID, form.TenantID, statusStrings(from))
		if err != nil {
			return fmt.Errorf("taxFormRepo.Transition: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			var exists bool
			if err := tx.GetContext(ctx, &exists,
				"SELECT EXISTS(SELECT 1 FROM tax_forms WHERE id = $1 AND tenant_id = $2)",
				form.ID, form.TenantID); err != nil {
				return fmt.Errorf("taxFormRepo.Transition exists: %w", err)
			}
			if !exists {
				return domain.ErrFormNotFound
			}
			return domain.ErrFormStatusConflict
		}
		entry.FormID = &form.ID
		if err := insertAuditEntry(ctx, tx, entry); err != nil {
			return fmt.Errorf("taxFormRepo.Transition: %w", err)
		}
		return nil
	})
}

func (r *taxFormRepo) SupersedeWithCorrection(ctx context.Context, correction *domain.TaxForm, entry *domain.TaxFormAuditEntry) error {
	if correction.OriginalFormID == nil {
		return fmt.Errorf("taxFormRepo.SupersedeWithCorrection: correction has no original form")
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			`UPDATE tax_forms SET status = $1, updated_at = $2
			 WHERE id = $3 AND tenant_id = $4 AND status = $5`,
			domain.FormStatusCorrected, now,
			*correction.OriginalFormID, correction.TenantID, domain.FormStatusFiled)
		if err != nil {
			return fmt.Errorf("taxFormRepo.SupersedeWithCorrection: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrFormNotCorrectable
		}
		if err := execInsertTaxForm(ctx, tx, correction); err != nil {
			return fmt.Errorf("taxFormRepo.SupersedeWithCorrection insert: %w", err)
		}
		entry.FormID = correction.OriginalFormID
		if err := insertAuditEntry(ctx, tx, entry); err != nil {
			return fmt.Errorf("taxFormRepo.SupersedeWithCorrection: %w", err)
		}
		return nil
	})
}
