package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
	"taxfiling/internal/repository/postgres"
)

func seedForm(t *testing.T, repo port.TaxFormRepository, tenantID uuid.UUID, payeeID string, status domain.FormStatus) *domain.TaxForm {
	t.Helper()
	form := &domain.TaxForm{
		TenantID:             tenantID,
		TaxYear:              2024,
		FormType:             domain.FormType1099NEC,
		PayeeID:              payeeID,
		PayeeType:            domain.PayeeTypeCreator,
		PayerName:            "Acme Studios",
		PayerTIN:             "12-3456789",
		PayerAddress:         domain.Address{Line1: "1 Market St", City: "San Francisco", State: "CA", PostalCode: "94105"},
		RecipientName:        "Jane Doe",
		RecipientTINLastFour: "6789",
		RecipientAddress:     domain.Address{Line1: "22 Elm Ave", City: "Austin", State: "TX", PostalCode: "78701"},
		Status:               status,
		CreatedBy:            "user:seed",
	}
	form.SetBoxAmounts(domain.BoxAmounts{"1": 75000})
	require.NoError(t, repo.Create(context.Background(), form, auditFor(form, domain.AuditFormCreated)))
	return form
}

func auditFor(form *domain.TaxForm, action domain.AuditAction) *domain.TaxFormAuditEntry {
	return &domain.TaxFormAuditEntry{
		TenantID:  form.TenantID,
		PayeeID:   form.PayeeID,
		PayeeType: form.PayeeType,
		Action:    action,
		Actor:     "user:test",
	}
}

func type2CorrectionOf(original *domain.TaxForm, name string) *domain.TaxForm {
	ct := domain.CorrectionType2
	correction := *original
	correction.ID = uuid.Nil
	correction.Status = domain.FormStatusDraft
	correction.OriginalFormID = &original.ID
	correction.CorrectionType = &ct
	correction.CorrectionReason = "legal name changed"
	correction.RecipientName = name
	correction.FiledAt = nil
	correction.IRSConfirmation = ""
	return &correction
}

func TestTaxFormRepo_SupersedeWithCorrection_SecondWriterFails(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewTaxFormRepo(db)
	ctx := context.Background()
	tenantID := uuid.New()
	original := seedForm(t, repo, tenantID, "creator_1", domain.FormStatusFiled)

	first := type2CorrectionOf(original, "Jane Q. Doe")
	require.NoError(t, repo.SupersedeWithCorrection(ctx, first, auditFor(original, domain.AuditFormCorrected)))

	second := type2CorrectionOf(original, "J. Doe")
	err := repo.SupersedeWithCorrection(ctx, second, auditFor(original, domain.AuditFormCorrected))
	assert.ErrorIs(t, err, domain.ErrFormNotCorrectable)

	stored, err := repo.GetByID(ctx, tenantID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FormStatusCorrected, stored.Status)

	firstStored, err := repo.GetByID(ctx, tenantID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FormStatusDraft, firstStored.Status)
	require.NotNil(t, firstStored.OriginalFormID)
	assert.Equal(t, original.ID, *firstStored.OriginalFormID)
	assert.Equal(t, "Jane Q. Doe", firstStored.RecipientName)
	assert.Equal(t, int64(75000), firstStored.TotalAmountCents)

	_, err = repo.GetByID(ctx, tenantID, second.ID)
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}

func TestTaxFormRepo_SupersedeWithCorrection_RequiresFiledOriginal(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewTaxFormRepo(db)
	tenantID := uuid.New()
	approved := seedForm(t, repo, tenantID, "creator_2", domain.FormStatusApproved)

	err := repo.SupersedeWithCorrection(context.Background(), type2CorrectionOf(approved, "Other"),
		auditFor(approved, domain.AuditFormCorrected))

	assert.ErrorIs(t, err, domain.ErrFormNotCorrectable)
}

func TestTaxFormRepo_Transition_StaleStatusConflicts(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewTaxFormRepo(db)
	ctx := context.Background()
	tenantID := uuid.New()
	form := seedForm(t, repo, tenantID, "creator_3", domain.FormStatusDraft)

	// A caller that still believes the form is approved tries to file it.
	stale := *form
	stale.Status = domain.FormStatusFiled
	now := time.Now().UTC()
	stale.FiledAt = &now
	stale.IRSConfirmation = "IRS-1"
	err := repo.Transition(ctx, &stale, []domain.FormStatus{domain.FormStatusApproved}, auditFor(form, domain.AuditFormFiled))
	assert.ErrorIs(t, err, domain.ErrFormStatusConflict)

	stored, err := repo.GetByID(ctx, tenantID, form.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FormStatusDraft, stored.Status)
	assert.Empty(t, stored.IRSConfirmation)

	missing := *form
	missing.ID = uuid.New()
	err = repo.Transition(ctx, &missing, []domain.FormStatus{domain.FormStatusDraft}, auditFor(form, domain.AuditFormSubmitted))
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}

func TestTaxFormRepo_Transition_VoidsFiledForm(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewTaxFormRepo(db)
	ctx := context.Background()
	tenantID := uuid.New()
	form := seedForm(t, repo, tenantID, "creator_4", domain.FormStatusFiled)

	now := time.Now().UTC()
	form.Status = domain.FormStatusVoided
	form.VoidedAt = &now
	form.VoidReason = "below threshold"
	require.NoError(t, repo.Transition(ctx, form, []domain.FormStatus{domain.FormStatusFiled}, auditFor(form, domain.AuditFormVoided)))

	stored, err := repo.GetByID(ctx, tenantID, form.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FormStatusVoided, stored.Status)
	assert.Equal(t, "below threshold", stored.VoidReason)

	// A voided original frees the slot for a fresh form.
	seedForm(t, repo, tenantID, "creator_4", domain.FormStatusDraft)
}

func TestTaxFormRepo_Create_OneLiveOriginalPerPayeeYear(t *testing.T) {
	db := requireDB(t)
	repo := postgres.NewTaxFormRepo(db)
	tenantID := uuid.New()
	first := seedForm(t, repo, tenantID, "creator_5", domain.FormStatusDraft)

	dup := *first
	dup.ID = uuid.Nil
	err := repo.Create(context.Background(), &dup, auditFor(first, domain.AuditFormCreated))

	assert.ErrorIs(t, err, domain.ErrFormAlreadyExists)
}
