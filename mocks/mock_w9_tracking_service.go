package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// MockW9TrackingService is a mock implementation of service.W9TrackingService.
type MockW9TrackingService struct {
	mock.Mock
}

func (m *MockW9TrackingService) RecordReminder(ctx context.Context, input *service.RecordReminderInput) (*domain.W9ComplianceTracking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.W9ComplianceTracking), args.Error(1)
}

func (m *MockW9TrackingService) Flag(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, reason string) (*domain.W9ComplianceTracking, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.W9ComplianceTracking), args.Error(1)
}

func (m *MockW9TrackingService) Get(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.W9ComplianceTracking, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.W9ComplianceTracking), args.Error(1)
}
