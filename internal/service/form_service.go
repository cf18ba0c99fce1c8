package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxfiling/internal/domain"
	"taxfiling/internal/ledger"
	"taxfiling/internal/port"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// CreateDraftInput is the DTO for generating a draft form from a payee's annual total.
type CreateDraftInput struct {
	TenantID  uuid.UUID
	PayeeType domain.PayeeType
	PayeeID   string
	TaxYear   int
	Actor     string
}

// FormService drives tax forms through their lifecycle.
type FormService interface {
	CreateDraft(ctx context.Context, input *CreateDraftInput) (*domain.TaxForm, error)
	SubmitForReview(ctx context.Context, tenantID, formID uuid.UUID, actor string) (*domain.TaxForm, error)
	Approve(ctx context.Context, tenantID, formID uuid.UUID, actor string) (*domain.TaxForm, error)
	MarkFiled(ctx context.Context, tenantID, formID uuid.UUID, confirmation, actor string) (*domain.TaxForm, error)
	MarkStateFiled(ctx context.Context, tenantID, formID uuid.UUID, confirmation, actor string) (*domain.TaxForm, error)
	MarkDelivered(ctx context.Context, tenantID, formID uuid.UUID, method domain.DeliveryMethod, actor string) (*domain.TaxForm, error)
	Void(ctx context.Context, tenantID, formID uuid.UUID, reason, actor string) (*domain.TaxForm, error)
	Get(ctx context.Context, tenantID, formID uuid.UUID) (*domain.TaxForm, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.FormFilter) ([]domain.TaxForm, int, error)
	ListAudit(ctx context.Context, tenantID, formID uuid.UUID, offset, limit int) ([]domain.TaxFormAuditEntry, int, error)
}

type formService struct {
	formRepo     port.TaxFormRepository
	payeeRepo    port.TaxPayeeRepository
	payerRepo    port.PayerProfileRepository
	auditRepo    port.TaxAuditRepository
	aggregator   AggregationService
	defaultPayer domain.PayerProfile
	log          *zap.Logger
	now          func() time.Time
}

// NewFormService creates a new FormService implementation. defaultPayer is
// snapshotted onto forms of tenants without a payer profile row.
func NewFormService(
	formRepo port.TaxFormRepository,
	payeeRepo port.TaxPayeeRepository,
	payerRepo port.PayerProfileRepository,
	auditRepo port.TaxAuditRepository,
	aggregator AggregationService,
	defaultPayer domain.PayerProfile,
	log *zap.Logger,
) FormService {
	if log == nil {
		log = zap.NewNop()
	}
	return &formService{
		formRepo:     formRepo,
		payeeRepo:    payeeRepo,
		payerRepo:    payerRepo,
		auditRepo:    auditRepo,
		aggregator:   aggregator,
		defaultPayer: defaultPayer,
		log:          log.Named("forms"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *formService) CreateDraft(ctx context.Context, input *CreateDraftInput) (*domain.TaxForm, error) {
	if err := requireActor(input.Actor); err != nil {
		return nil, err
	}
	src, err := ledger.SourceFor(input.PayeeType)
	if err != nil {
		return nil, err
	}

	_, err = s.formRepo.FindLiveOriginal(ctx, input.TenantID, input.PayeeType, input.PayeeID, input.TaxYear)
	if err == nil {
		return nil, domain.ErrFormAlreadyExists
	}
	if !errors.Is(err, domain.ErrFormNotFound) {
		return nil, err
	}

	total, err := s.aggregator.AnnualTotal(ctx, input.TenantID, input.PayeeType, input.PayeeID, input.TaxYear)
	if err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: annual total is negative", domain.ErrInvalidBoxAmounts)
	}

	payer, err := s.payerFor(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	form := &domain.TaxForm{
		ID:           uuid.New(),
		TenantID:     input.TenantID,
		TaxYear:      input.TaxYear,
		FormType:     src.FormType,
		PayeeID:      input.PayeeID,
		PayeeType:    input.PayeeType,
		PayerName:    payer.Name,
		PayerTIN:     payer.TIN,
		PayerAddress: payer.Address,
		Status:       domain.FormStatusDraft,
		CreatedBy:    input.Actor,
	}
	form.SetBoxAmounts(domain.BoxAmounts{src.PrimaryBox: total})

	payee, err := s.payeeRepo.GetActive(ctx, input.TenantID, input.PayeeType, input.PayeeID)
	switch {
	case err == nil:
		form.RecipientName = payee.DisplayName()
		form.RecipientTINLastFour = payee.TINLastFour
		form.RecipientAddress = payee.Address
	case errors.Is(err, domain.ErrPayeeNotFound):
		s.log.Warn("creating draft without W-9 on file",
			zap.String("payee_id", input.PayeeID),
			zap.String("payee_type", string(input.PayeeType)),
			zap.Int("tax_year", input.TaxYear))
	default:
		return nil, err
	}

	entry := newAuditEntry(form, domain.AuditFormCreated, input.Actor, map[string]interface{}{
		"form_type":          form.FormType,
		"total_amount_cents": form.TotalAmountCents,
	})
	if err := s.formRepo.Create(ctx, form, entry); err != nil {
		return nil, err
	}
	s.aggregator.InvalidateYear(ctx, form.TenantID, form.TaxYear)
	return form, nil
}

func (s *formService) payerFor(ctx context.Context, tenantID uuid.UUID) (domain.PayerProfile, error) {
	p, err := s.payerRepo.GetByTenant(ctx, tenantID)
	if err == nil {
		return *p, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return s.defaultPayer, nil
	}
	return domain.PayerProfile{}, err
}

func (s *formService) SubmitForReview(ctx context.Context, tenantID, formID uuid.UUID, actor string) (*domain.TaxForm, error) {
	return s.transition(ctx, tenantID, formID, actor, domain.AuditFormSubmitted,
		[]domain.FormStatus{domain.FormStatusDraft},
		func(f *domain.TaxForm) (map[string]interface{}, error) {
			f.Status = domain.FormStatusPendingReview
			return nil, nil
		})
}

func (s *formService) Approve(ctx context.Context, tenantID, formID uuid.UUID, actor string) (*domain.TaxForm, error) {
	return s.transition(ctx, tenantID, formID, actor, domain.AuditFormApproved,
		[]domain.FormStatus{domain.FormStatusDraft, domain.FormStatusPendingReview},
		func(f *domain.TaxForm) (map[string]interface{}, error) {
			now := s.now()
			f.Status = domain.FormStatusApproved
			f.ApprovedAt = &now
			f.ApprovedBy = actor
			return nil, nil
		})
}

func (s *formService) MarkFiled(ctx context.Context, tenantID, formID uuid.UUID, confirmation, actor string) (*domain.TaxForm, error) {
	confirmation = strings.TrimSpace(confirmation)
	if confirmation == "" {
		return nil, domain.ErrConfirmationRequired
	}
	return s.transition(ctx, tenantID, formID, actor, domain.AuditFormFiled,
		[]domain.FormStatus{domain.FormStatusApproved},
		func(f *domain.TaxForm) (map[string]interface{}, error) {
			now := s.now()
			f.Status = domain.FormStatusFiled
			f.FiledAt = &now
			f.IRSConfirmation = confirmation
			return map[string]interface{}{"irs_confirmation": confirmation}, nil
		})
}

func (s *formService) MarkStateFiled(ctx context.Context, tenantID, formID uuid.UUID, confirmation, actor string) (*domain.TaxForm, error) {
	confirmation = strings.TrimSpace(confirmation)
	if confirmation == "" {
		return nil, domain.ErrConfirmationRequired
	}
	return s.transition(ctx, tenantID, formID, actor, domain.AuditFormStateFiled,
		[]domain.FormStatus{domain.FormStatusFiled},
		func(f *domain.TaxForm) (map[string]interface{}, error) {
			now := s.now()
			f.StateFiledAt = &now
			f.StateConfirmation = confirmation
			return map[string]interface{}{"state_confirmation": confirmation}, nil
		})
}

func (s *formService) MarkDelivered(ctx context.Context, tenantID, formID uuid.UUID, method domain.DeliveryMethod, actor string) (*domain.TaxForm, error) {
	if method != domain.DeliveryEmail && method != domain.DeliveryMail {
		return nil, domain.ErrInvalidDeliveryMethod
	}
	return s.transition(ctx, tenantID, formID, actor, domain.AuditFormDelivered,
		[]domain.FormStatus{domain.FormStatusFiled, domain.FormStatusCorrected},
		func(f *domain.TaxForm) (map[string]interface{}, error) {
			now := s.now()
			f.DeliveryMethod = method
			f.DeliveredAt = &now
			return map[string]interface{}{"delivery_method": method}, nil
		})
}

func (s *formService) Void(ctx context.Context, tenantID, formID uuid.UUID, reason, actor string) (*domain.TaxForm, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}
	return s.transition(ctx, tenantID, formID, actor, domain.AuditFormVoided,
		[]domain.FormStatus{domain.FormStatusDraft, domain.FormStatusPendingReview, domain.FormStatusApproved, domain.FormStatusFiled},
		func(f *domain.TaxForm) (map[string]interface{}, error) {
			now := s.now()
			f.Status = domain.FormStatusVoided
			f.VoidedAt = &now
			f.VoidReason = reason
			return map[string]interface{}{"reason": reason}, nil
		})
}

// transition loads the form, checks it is in one of from, applies mutate and
// persists the change and its audit entry as one compare-and-swap.
func (s *formService) transition(
	ctx context.Context,
	tenantID, formID uuid.UUID,
	actor string,
	action domain.AuditAction,
	from []domain.FormStatus,
	mutate func(f *domain.TaxForm) (map[string]interface{}, error),
) (*domain.TaxForm, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	form, err := s.formRepo.GetByID(ctx, tenantID, formID)
	if err != nil {
		return nil, err
	}
	if !statusIn(form.Status, from) {
		return nil, fmt.Errorf("%w: %s cannot move from %s", domain.ErrInvalidFormTransition, action, form.Status)
	}

	prev := form.Status
	changes, err := mutate(form)
	if err != nil {
		return nil, err
	}
	if changes == nil {
		changes = map[string]interface{}{}
	}
	changes["from_status"] = prev
	changes["to_status"] = form.Status

	entry := newAuditEntry(form, action, actor, changes)
	if err := s.formRepo.Transition(ctx, form, from, entry); err != nil {
		return nil, err
	}

	s.log.Info("form transitioned",
		zap.String("form_id", form.ID.String()),
		zap.String("action", string(action)),
		zap.String("from", string(prev)),
		zap.String("to", string(form.Status)))
	if prev != form.Status {
		s.aggregator.InvalidateYear(ctx, form.TenantID, form.TaxYear)
	}
	return form, nil
}

func statusIn(status domain.FormStatus, set []domain.FormStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func (s *formService) Get(ctx context.Context, tenantID, formID uuid.UUID) (*domain.TaxForm, error) {
	return s.formRepo.GetByID(ctx, tenantID, formID)
}

func (s *formService) List(ctx context.Context, tenantID uuid.UUID, filter domain.FormFilter) ([]domain.TaxForm, int, error) {
	if _, err := ledger.YearPeriod(filter.TaxYear); err != nil {
		return nil, 0, err
	}
	if filter.PayeeType != nil && !filter.PayeeType.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, *filter.PayeeType)
	}
	filter.Offset, filter.Limit = clampPage(filter.Offset, filter.Limit)
	return s.formRepo.List(ctx, tenantID, filter)
}

func (s *formService) ListAudit(ctx context.Context, tenantID, formID uuid.UUID, offset, limit int) ([]domain.TaxFormAuditEntry, int, error) {
	if _, err := s.formRepo.GetByID(ctx, tenantID, formID); err != nil {
		return nil, 0, err
	}
	offset, limit = clampPage(offset, limit)
	return s.auditRepo.ListByForm(ctx, tenantID, formID, offset, limit)
}

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}
