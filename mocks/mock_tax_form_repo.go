package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
)

// MockTaxFormRepo is a mock implementation of port.TaxFormRepository.
type MockTaxFormRepo struct {
	mock.Mock
}

func (m *MockTaxFormRepo) Create(ctx context.Context, form *domain.TaxForm, entry *domain.TaxFormAuditEntry) error {
	args := m.Called(ctx, form, entry)
	return args.Error(0)
}

func (m *MockTaxFormRepo) GetByID(ctx context.Context, tenantID, formID uuid.UUID) (*domain.TaxForm, error) {
	args := m.Called(ctx, tenantID, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxForm), args.Error(1)
}

func (m *MockTaxFormRepo) FindLiveOriginal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (*domain.TaxForm, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxForm), args.Error(1)
}

func (m *MockTaxFormRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.FormFilter) ([]domain.TaxForm, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxForm), args.Int(1), args.Error(2)
}

func (m *MockTaxFormRepo) ListByStatus(ctx context.Context, tenantID uuid.UUID, year int, status domain.FormStatus, payeeType *domain.PayeeType) ([]domain.TaxForm, error) {
	args := m.Called(ctx, tenantID, year, status, payeeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxForm), args.Error(1)
}

func (m *MockTaxFormRepo) CountByStatus(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) ([]domain.FormStatusCount, error) {
	args := m.Called(ctx, tenantID, year, payeeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FormStatusCount), args.Error(1)
}

func (m *MockTaxFormRepo) Transition(ctx context.Context, form *domain.TaxForm, from []domain.FormStatus, entry *domain.TaxFormAuditEntry) error {
	args := m.Called(ctx, form, from, entry)
	return args.Error(0)
}

func (m *MockTaxFormRepo) SupersedeWithCorrection(ctx context.Context, correction *domain.TaxForm, entry *domain.TaxFormAuditEntry) error {
	args := m.Called(ctx, correction, entry)
	return args.Error(0)
}
