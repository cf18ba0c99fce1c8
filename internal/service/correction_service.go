package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

// Type1CorrectionInput is the DTO for an amount-only correction.
type Type1CorrectionInput struct {
	TenantID       uuid.UUID
	OriginalFormID uuid.UUID
	BoxAmounts     domain.BoxAmounts
	Reason         string
	Actor          string
}

// Type2CorrectionInput is the DTO for a recipient-identity correction. Nil
// fields keep the original's value.
type Type2CorrectionInput struct {
	TenantID             uuid.UUID
	OriginalFormID       uuid.UUID
	RecipientName        *string
	RecipientAddress     *domain.Address
	RecipientTINLastFour *string
	Reason               string
	Actor                string
}

// CorrectionService creates IRS Type 1 and Type 2 corrections of filed forms.
type CorrectionService interface {
	CreateType1(ctx context.Context, input *Type1CorrectionInput) (*domain.TaxForm, error)
	CreateType2(ctx context.Context, input *Type2CorrectionInput) (*domain.TaxForm, error)
}

type correctionService struct {
	formRepo   port.TaxFormRepository
	aggregator AggregationService
	log        *zap.Logger
}

// NewCorrectionService creates a new CorrectionService implementation.
func NewCorrectionService(formRepo port.TaxFormRepository, aggregator AggregationService, log *zap.Logger) CorrectionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &correctionService{
		formRepo:   formRepo,
		aggregator: aggregator,
		log:        log.Named("corrections"),
	}
}

func (s *correctionService) loadCorrectable(ctx context.Context, tenantID, formID uuid.UUID, reason, actor string) (*domain.TaxForm, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrReasonRequired
	}
	original, err := s.formRepo.GetByID(ctx, tenantID, formID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.FormStatusFiled {
		return nil, domain.ErrFormNotCorrectable
	}
	return original, nil
}

// newCorrection copies the original's snapshots into a fresh draft that references it.
func newCorrection(original *domain.TaxForm, ct domain.CorrectionType, reason, actor string) *domain.TaxForm {
	originalID := original.ID
	return &domain.TaxForm{
		ID:                   uuid.New(),
		TenantID:             original.TenantID,
		TaxYear:              original.TaxYear,
		FormType:             original.FormType,
		PayeeID:              original.PayeeID,
		PayeeType:            original.PayeeType,
		PayerName:            original.PayerName,
		PayerTIN:             original.PayerTIN,
		PayerAddress:         original.PayerAddress,
		RecipientName:        original.RecipientName,
		RecipientTINLastFour: original.RecipientTINLastFour,
		RecipientAddress:     original.RecipientAddress,
		BoxAmounts:           original.BoxAmounts.Clone(),
		TotalAmountCents:     original.BoxAmounts.Total(),
		Status:               domain.FormStatusDraft,
		OriginalFormID:       &originalID,
		CorrectionType:       &ct,
		CorrectionReason:     strings.TrimSpace(reason),
		CreatedBy:            actor,
	}
}

func (s *correctionService) CreateType1(ctx context.Context, input *Type1CorrectionInput) (*domain.TaxForm, error) {
	if err := input.BoxAmounts.Validate(); err != nil {
		return nil, err
	}
	original, err := s.loadCorrectable(ctx, input.TenantID, input.OriginalFormID, input.Reason, input.Actor)
	if err != nil {
		return nil, err
	}

	correction := newCorrection(original, domain.CorrectionType1, input.Reason, input.Actor)
	correction.SetBoxAmounts(input.BoxAmounts)

	entry := newAuditEntry(correction, domain.AuditFormCorrected, input.Actor, map[string]interface{}{
		"correction_type":  domain.CorrectionType1,
		"original_form_id": original.ID,
		"reason":           correction.CorrectionReason,
		"old_box_amounts":  original.BoxAmounts,
		"new_box_amounts":  correction.BoxAmounts,
		"old_total_cents":  original.TotalAmountCents,
		"new_total_cents":  correction.TotalAmountCents,
	})
	if err := s.formRepo.Create(ctx, correction, entry); err != nil {
		return nil, err
	}

	s.log.Info("type 1 correction created",
		zap.String("original_form_id", original.ID.String()),
		zap.String("correction_form_id", correction.ID.String()),
		zap.Int64("old_total_cents", original.TotalAmountCents),
		zap.Int64("new_total_cents", correction.TotalAmountCents))
	s.aggregator.InvalidateYear(ctx, correction.TenantID, correction.TaxYear)
	return correction, nil
}

type fieldDiff struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

func (s *correctionService) CreateType2(ctx context.Context, input *Type2CorrectionInput) (*domain.TaxForm, error) {
	if input.RecipientTINLastFour != nil && !isLastFour(*input.RecipientTINLastFour) {
		return nil, domain.ErrInvalidTIN
	}
	original, err := s.loadCorrectable(ctx, input.TenantID, input.OriginalFormID, input.Reason, input.Actor)
	if err != nil {
		return nil, err
	}

	correction := newCorrection(original, domain.CorrectionType2, input.Reason, input.Actor)
	diff := map[string]fieldDiff{}

	if input.RecipientName != nil {
		name := strings.TrimSpace(*input.RecipientName)
		if name != original.RecipientName {
			diff["recipient_name"] = fieldDiff{Old: original.RecipientName, New: name}
			correction.RecipientName = name
		}
	}
	if input.RecipientAddress != nil && *input.RecipientAddress != original.RecipientAddress {
		diff["recipient_address"] = fieldDiff{Old: original.RecipientAddress, New: *input.RecipientAddress}
		correction.RecipientAddress = *input.RecipientAddress
	}
	if input.RecipientTINLastFour != nil && *input.RecipientTINLastFour != original.RecipientTINLastFour {
		diff["recipient_tin_last_four"] = fieldDiff{Old: original.RecipientTINLastFour, New: *input.RecipientTINLastFour}
		correction.RecipientTINLastFour = *input.RecipientTINLastFour
	}
	if len(diff) == 0 {
		return nil, domain.ErrNoCorrectionChanges
	}

	entry := newAuditEntry(original, domain.AuditFormCorrected, input.Actor, map[string]interface{}{
		"correction_type":    domain.CorrectionType2,
		"correction_form_id": correction.ID,
		"reason":             correction.CorrectionReason,
		"fields":             diff,
	})
	if err := s.formRepo.SupersedeWithCorrection(ctx, correction, entry); err != nil {
		return nil, fmt.Errorf("creating type 2 correction of %s: %w", original.ID, err)
	}

	s.log.Info("type 2 correction created",
		zap.String("original_form_id", original.ID.String()),
		zap.String("correction_form_id", correction.ID.String()),
		zap.Int("changed_fields", len(diff)))
	s.aggregator.InvalidateYear(ctx, correction.TenantID, correction.TaxYear)
	return correction, nil
}

func isLastFour(v string) bool {
	if len(v) != 4 {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
