package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

// RecordReminderInput is the DTO for sending one W-9 reminder.
type RecordReminderInput struct {
	TenantID  uuid.UUID
	PayeeType domain.PayeeType
	PayeeID   string
	Stage     domain.W9ReminderStage
	Email     string
	Name      string
	TaxYear   int
}

// W9TrackingService drives the W-9 collection cadence.
type W9TrackingService interface {
	RecordReminder(ctx context.Context, input *RecordReminderInput) (*domain.W9ComplianceTracking, error)
	Flag(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, reason string) (*domain.W9ComplianceTracking, error)
	Get(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.W9ComplianceTracking, error)
}

type w9TrackingService struct {
	trackingRepo port.W9TrackingRepository
	payeeRepo    port.TaxPayeeRepository
	sender       port.EmailSender
	log          *zap.Logger
	now          func() time.Time
}

// NewW9TrackingService creates a new W9TrackingService implementation.
func NewW9TrackingService(
	trackingRepo port.W9TrackingRepository,
	payeeRepo port.TaxPayeeRepository,
	sender port.EmailSender,
	log *zap.Logger,
) W9TrackingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &w9TrackingService{
		trackingRepo: trackingRepo,
		payeeRepo:    payeeRepo,
		sender:       sender,
		log:          log.Named("w9"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *w9TrackingService) RecordReminder(ctx context.Context, input *RecordReminderInput) (*domain.W9ComplianceTracking, error) {
	if !input.PayeeType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, input.PayeeType)
	}
	if !input.Stage.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidReminderStage, input.Stage)
	}

	email, name := input.Email, input.Name
	if email == "" {
		payee, err := s.payeeRepo.GetActive(ctx, input.TenantID, input.PayeeType, input.PayeeID)
		if err != nil && !errors.Is(err, domain.ErrPayeeNotFound) {
			return nil, err
		}
		if payee != nil {
			email = payee.Email
			if name == "" {
				name = payee.DisplayName()
			}
		}
	}
	if email == "" {
		return nil, domain.ErrPayeeContactMissing
	}

	err := s.sender.SendW9Reminder(ctx, port.W9Reminder{
		ToEmail:   email,
		ToName:    name,
		PayeeType: input.PayeeType,
		Stage:     input.Stage,
		TaxYear:   input.TaxYear,
	})
	if err != nil {
		return nil, fmt.Errorf("sending %s reminder: %w", input.Stage, err)
	}

	if err := s.trackingRepo.RecordStage(ctx, input.TenantID, input.PayeeType, input.PayeeID, input.Stage, s.now()); err != nil {
		return nil, err
	}
	s.log.Info("W-9 reminder sent",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("payee_type", string(input.PayeeType)),
		zap.String("payee_id", input.PayeeID),
		zap.String("stage", string(input.Stage)))

	return s.trackingRepo.Get(ctx, input.TenantID, input.PayeeType, input.PayeeID)
}

func (s *w9TrackingService) Flag(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, reason string) (*domain.W9ComplianceTracking, error) {
	if !payeeType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPayeeType, payeeType)
	}
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}
	if err := s.trackingRepo.Flag(ctx, tenantID, payeeType, payeeID, reason, s.now()); err != nil {
		return nil, err
	}
	s.log.Warn("payee flagged for W-9 follow-up",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payee_id", payeeID),
		zap.String("reason", reason))
	return s.trackingRepo.Get(ctx, tenantID, payeeType, payeeID)
}

func (s *w9TrackingService) Get(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.W9ComplianceTracking, error) {
	return s.trackingRepo.Get(ctx, tenantID, payeeType, payeeID)
}
