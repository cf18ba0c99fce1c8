package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
)

// MockLedgerRepo is a mock implementation of port.LedgerRepository.
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) AnnualTotal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (int64, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) MonthlyBreakdown(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (map[int]int64, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int64), args.Error(1)
}

func (m *MockLedgerRepo) PayeeTotals(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeTotal, error) {
	args := m.Called(ctx, tenantID, payeeType, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayeeTotal), args.Error(1)
}
