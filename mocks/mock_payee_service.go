package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// MockPayeeService is a mock implementation of service.PayeeService.
type MockPayeeService struct {
	mock.Mock
}

func (m *MockPayeeService) SubmitW9(ctx context.Context, input *service.SubmitW9Input) (*domain.TaxPayee, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxPayee), args.Error(1)
}

func (m *MockPayeeService) GetPayee(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.TaxPayee, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxPayee), args.Error(1)
}

func (m *MockPayeeService) RevealTIN(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID, actor, reason string) (string, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, actor, reason)
	return args.String(0), args.Error(1)
}

func (m *MockPayeeService) ListAudit(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, offset, limit int) ([]domain.TaxFormAuditEntry, int, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxFormAuditEntry), args.Int(1), args.Error(2)
}
