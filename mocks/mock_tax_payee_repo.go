package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
)

// MockTaxPayeeRepo is a mock implementation of port.TaxPayeeRepository.
type MockTaxPayeeRepo struct {
	mock.Mock
}

func (m *MockTaxPayeeRepo) Create(ctx context.Context, payee *domain.TaxPayee) error {
	args := m.Called(ctx, payee)
	return args.Error(0)
}

func (m *MockTaxPayeeRepo) Supersede(ctx context.Context, previous, next *domain.TaxPayee) error {
	args := m.Called(ctx, previous, next)
	return args.Error(0)
}

func (m *MockTaxPayeeRepo) GetActive(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string) (*domain.TaxPayee, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxPayee), args.Error(1)
}

func (m *MockTaxPayeeRepo) ListActiveByType(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType) ([]domain.TaxPayee, error) {
	args := m.Called(ctx, tenantID, payeeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxPayee), args.Error(1)
}
