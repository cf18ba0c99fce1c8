package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
	"taxfiling/internal/tin"
)

// SubmitW9Input is the DTO for a W-9 submission or resubmission.
type SubmitW9Input struct {
	TenantID          uuid.UUID
	PayeeID           string
	PayeeType         domain.PayeeType
	LegalName         string
	BusinessName      string
	TaxClassification domain.TaxClassification
	Address           domain.Address
	Email             string
	TINType           domain.TINType
	TIN               string
	CertifiedName     string
	CertifiedIP       string
	EDeliveryConsent  bool
	Actor             string
}

// PayeeService manages W-9 intake and TIN access.
type PayeeService interface {
	SubmitW9(ctx context.Context, input *SubmitW9Input) (*domain.TaxPayee, error)
	GetPayee(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.TaxPayee, error)
	RevealTIN(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, actor, reason string) (string, error)
	ListAudit(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, offset, limit int) ([]domain.TaxFormAuditEntry, int, error)
}

type payeeService struct {
	payeeRepo    port.TaxPayeeRepository
	auditRepo    port.TaxAuditRepository
	trackingRepo port.W9TrackingRepository
	vault        port.TINVault
	log          *zap.Logger
	now          func() time.Time
}

// NewPayeeService creates a new PayeeService implementation.
func NewPayeeService(
	payeeRepo port.TaxPayeeRepository,
	auditRepo port.TaxAuditRepository,
	trackingRepo port.W9TrackingRepository,
	vault port.TINVault,
	log *zap.Logger,
) PayeeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &payeeService{
		payeeRepo:    payeeRepo,
		auditRepo:    auditRepo,
		trackingRepo: trackingRepo,
		vault:        vault,
		log:          log.Named("payees"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func validateW9(input *SubmitW9Input) error {
	if !input.PayeeType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, input.PayeeType)
	}
	if strings.TrimSpace(input.PayeeID) == "" {
		return fmt.Errorf("%w: payee id is required", domain.ErrInvalidW9)
	}
	if strings.TrimSpace(input.LegalName) == "" {
		return fmt.Errorf("%w: legal name is required", domain.ErrInvalidW9)
	}
	if !input.TaxClassification.Valid() {
		return fmt.Errorf("%w: unknown tax classification %q", domain.ErrInvalidW9, input.TaxClassification)
	}
	if input.TINType != domain.TINTypeSSN && input.TINType != domain.TINTypeEIN {
		return fmt.Errorf("%w: TIN type must be ssn or ein", domain.ErrInvalidW9)
	}
	if !input.Address.Complete() {
		return fmt.Errorf("%w: address requires line1, city, state and postal code", domain.ErrInvalidW9)
	}
	if strings.TrimSpace(input.CertifiedName) == "" {
		return fmt.Errorf("%w: certification signature is required", domain.ErrInvalidW9)
	}
	return nil
}

func (s *payeeService) SubmitW9(ctx context.Context, input *SubmitW9Input) (*domain.TaxPayee, error) {
	if err := validateW9(input); err != nil {
		return nil, err
	}
	normalized, err := tin.Normalize(input.TIN)
	if err != nil {
		return nil, err
	}
	ciphertext, err := s.vault.Encrypt(normalized)
	if err != nil {
		return nil, fmt.Errorf("encrypting TIN: %w", err)
	}

	now := s.now()
	payee := &domain.TaxPayee{
		ID:                uuid.New(),
		TenantID:          input.TenantID,
		PayeeID:           strings.TrimSpace(input.PayeeID),
		PayeeType:         input.PayeeType,
		LegalName:         strings.TrimSpace(input.LegalName),
		BusinessName:      strings.TrimSpace(input.BusinessName),
		TaxClassification: input.TaxClassification,
		Address:           input.Address,
		Email:             strings.TrimSpace(input.Email),
		TINType:           input.TINType,
		TINEncrypted:      ciphertext,
		TINLastFour:       tin.LastFour(normalized),
		W9CertifiedAt:     &now,
		W9CertifiedName:   strings.TrimSpace(input.CertifiedName),
		W9CertifiedIP:     input.CertifiedIP,
		EDeliveryConsent:  input.EDeliveryConsent,
	}
	if input.EDeliveryConsent {
		payee.EDeliveryConsentAt = &now
	}

	action := domain.AuditW9Submitted
	previous, err := s.payeeRepo.GetActive(ctx, input.TenantID, input.PayeeType, payee.PayeeID)
	switch {
	case errors.Is(err, domain.ErrPayeeNotFound):
		if err := s.payeeRepo.Create(ctx, payee); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		action = domain.AuditW9Updated
		if err := s.payeeRepo.Supersede(ctx, previous, payee); err != nil {
			return nil, err
		}
	}

	changes := map[string]interface{}{
		"legal_name":         payee.LegalName,
		"tax_classification": payee.TaxClassification,
		"tin":                tin.Mask(payee.TINLastFour, payee.TINType),
		"e_delivery_consent": payee.EDeliveryConsent,
	}
	if previous != nil {
		changes["previous_record_id"] = previous.ID
		changes["previous_tin"] = tin.Mask(previous.TINLastFour, previous.TINType)
	}
	s.audit(ctx, payee, action, input.Actor, changes)

	if err := s.trackingRepo.MarkCompleted(ctx, payee.TenantID, payee.PayeeType, payee.PayeeID, now); err != nil {
		s.log.Warn("marking W-9 tracking complete failed",
			zap.String("payee_id", payee.PayeeID),
			zap.String("payee_type", string(payee.PayeeType)),
			zap.Error(err))
	}

	s.log.Info("W-9 recorded",
		zap.String("payee_id", payee.PayeeID),
		zap.String("payee_type", string(payee.PayeeType)),
		zap.String("action", string(action)),
		zap.String("tin_last_four", payee.TINLastFour))
	return payee, nil
}

func (s *payeeService) audit(ctx context.Context, payee *domain.TaxPayee, action domain.AuditAction, actor string, changes map[string]interface{}) {
	raw, _ := json.Marshal(changes)
	if actor == "" {
		actor = "payee:" + payee.PayeeID
	}
	entry := &domain.TaxFormAuditEntry{
		ID:        uuid.New(),
		TenantID:  payee.TenantID,
		PayeeID:   payee.PayeeID,
		PayeeType: payee.PayeeType,
		Action:    action,
		Actor:     actor,
		Changes:   raw,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.log.Error("writing W-9 audit entry failed",
			zap.String("payee_id", payee.PayeeID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func (s *payeeService) GetPayee(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.TaxPayee, error) {
	if !payeeType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, payeeType)
	}
	return s.payeeRepo.GetActive(ctx, tenantID, payeeType, payeeID)
}

func (s *payeeService) RevealTIN(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, actor, reason string) (string, error) {
	payee, err := s.GetPayee(ctx, tenantID, payeeType, payeeID)
	if err != nil {
		return "", err
	}
	if !payee.HasTIN() {
		return "", domain.ErrTINUnavailable
	}
	plain, err := s.vault.Decrypt(ctx, payee.TINEncrypted, actor, reason, port.DecryptContext{
		TenantID:  tenantID,
		PayeeID:   payee.PayeeID,
		PayeeType: payee.PayeeType,
	})
	if err != nil {
		return "", err
	}
	return tin.Format(plain, payee.TINType), nil
}

func (s *payeeService) ListAudit(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, offset, limit int) ([]domain.TaxFormAuditEntry, int, error) {
	if !payeeType.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, payeeType)
	}
	offset, limit = clampPage(offset, limit)
	return s.auditRepo.ListByPayee(ctx, tenantID, payeeType, payeeID, offset, limit)
}
