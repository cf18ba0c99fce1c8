package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxfiling/internal/domain"
)

// LedgerRepository aggregates taxable payments from the per-payee-type ledger tables.
// Every query is scoped to the calendar tax year and the registry's taxable types.
type LedgerRepository interface {
	AnnualTotal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (int64, error)
	MonthlyBreakdown(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (map[int]int64, error)
	PayeeTotals(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeTotal, error)
}

// TaxPayeeRepository persists W-9 records. Only rows with no superseded_at are active.
type TaxPayeeRepository interface {
	Create(ctx context.Context, payee *domain.TaxPayee) error
	Supersede(ctx context.Context, previous, next *domain.TaxPayee) error
	GetActive(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.TaxPayee, error)
	ListActiveByType(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType) ([]domain.TaxPayee, error)
}

// PayerProfileRepository reads the filer identity configured for a tenant.
type PayerProfileRepository interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.PayerProfile, error)
}

// TaxFormRepository persists tax forms. Every mutating method writes its audit
// entry in the same transaction as the form change.
type TaxFormRepository interface {
	Create(ctx context.Context, form *domain.TaxForm, entry *domain.TaxFormAuditEntry) error
	GetByID(ctx context.Context, tenantID, formID uuid.UUID) (*domain.TaxForm, error)
	FindLiveOriginal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (*domain.TaxForm, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.FormFilter) ([]domain.TaxForm, int, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, year int, status domain.FormStatus, payeeType *domain.PayeeType) ([]domain.TaxForm, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) ([]domain.FormStatusCount, error)
	// Transition persists form's status and side fields only if the stored status
	// is one of from. Returns domain.ErrFormStatusConflict when no row matched.
	Transition(ctx context.Context, form *domain.TaxForm, from []domain.FormStatus, entry *domain.TaxFormAuditEntry) error
	// SupersedeWithCorrection moves the original filed -> corrected and inserts
	// the correction. Returns domain.ErrFormNotCorrectable when the original is no longer filed.
	SupersedeWithCorrection(ctx context.Context, correction *domain.TaxForm, entry *domain.TaxFormAuditEntry) error
}

// TaxAuditRepository is the append-only compliance trail.
type TaxAuditRepository interface {
	Create(ctx context.Context, entry *domain.TaxFormAuditEntry) error
	ListByForm(ctx context.Context, tenantID, formID uuid.UUID, offset, limit int) ([]domain.TaxFormAuditEntry, int, error)
	ListByPayee(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, offset, limit int) ([]domain.TaxFormAuditEntry, int, error)
}

// W9TrackingRepository stores the W-9 reminder cadence per payee.
type W9TrackingRepository interface {
	Get(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.W9ComplianceTracking, error)
	RecordStage(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, stage domain.W9ReminderStage, at time.Time) error
	MarkCompleted(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, at time.Time) error
	Flag(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, reason string, at time.Time) error
}
