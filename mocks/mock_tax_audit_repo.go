package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
)

// MockTaxAuditRepo is a mock implementation of port.TaxAuditRepository.
type MockTaxAuditRepo struct {
	mock.Mock
}

func (m *MockTaxAuditRepo) Create(ctx context.Context, entry *domain.TaxFormAuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTaxAuditRepo) ListByForm(ctx context.Context, tenantID, formID uuid.UUID, offset, limit int) ([]domain.TaxFormAuditEntry, int, error) {
	args := m.Called(ctx, tenantID, formID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxFormAuditEntry), args.Int(1), args.Error(2)
}

func (m *MockTaxAuditRepo) ListByPayee(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, offset, limit int) ([]domain.TaxFormAuditEntry, int, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxFormAuditEntry), args.Int(1), args.Error(2)
}
