package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
)

// MockW9TrackingRepo is a mock implementation of port.W9TrackingRepository.
type MockW9TrackingRepo struct {
	mock.Mock
}

func (m *MockW9TrackingRepo) Get(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.W9ComplianceTracking, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.W9ComplianceTracking), args.Error(1)
}

func (m *MockW9TrackingRepo) RecordStage(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, stage domain.W9ReminderStage, at time.Time) error {
	args := m.Called(ctx, tenantID, payeeType, payeeID, stage, at)
	return args.Error(0)
}

func (m *MockW9TrackingRepo) MarkCompleted(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, at time.Time) error {
	args := m.Called(ctx, tenantID, payeeType, payeeID, at)
	return args.Error(0)
}

func (m *MockW9TrackingRepo) Flag(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, reason string, at time.Time) error {
	args := m.Called(ctx, tenantID, payeeType, payeeID, reason, at)
	return args.Error(0)
}
