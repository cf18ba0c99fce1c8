package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// MockFormService is a mock implementation of service.FormService.
type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) form(args mock.Arguments) (*domain.TaxForm, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxForm), args.Error(1)
}

func (m *MockFormService) CreateDraft(ctx context.Context, input *service.CreateDraftInput) (*domain.TaxForm, error) {
	return m.form(m.Called(ctx, input))
}

func (m *MockFormService) SubmitForReview(ctx context.Context, tenantID, formID uuid.UUID, actor string) (*domain.TaxForm, error) {
	return m.form(m.Called(ctx, tenantID, formID, actor))
}

func (m *MockFormService) Approve(ctx context.Context, tenantID, formID uuid.UUID, actor string) (*domain.TaxForm, error) {
	return m.form(m.Called(ctx, tenantID, formID, actor))
}

func (m *MockFormService) MarkFiled(ctx context.Context, tenantID, formID uuid.UUID, confirmation, actor string) (*domain.TaxForm, error) {
	return m.form(m.Called(ctx, tenantID, formID, confirmation, actor))
}

func (m *MockFormService) MarkStateFiled(ctx context.Context, tenantID, formID uuid.UUID, confirmation, actor string) (*domain.TaxForm, error) {
	return m.form(m.Called(ctx, tenantID, formID, confirmation, actor))
}

func (m *MockFormService) MarkDelivered(ctx context.Context, tenantID, formID uuid.UUID, method domain.DeliveryMethod, actor string) (*domain.TaxForm, error) {
	return m.form(m.Called(ctx, tenantID, formID, method, actor))
}

func (m *MockFormService) Void(ctx context.Context, tenantID, formID uuid.UUID, reason, actor string) (*domain.TaxForm, error) {
	return m.form(m.Called(ctx, tenantID, formID, reason, actor))
}

func (m *MockFormService) Get(ctx context.Context, tenantID, formID uuid.UUID) (*domain.TaxForm, error) {
	return m.form(m.Called(ctx, tenantID, formID))
}

func (m *MockFormService) List(ctx context.Context, tenantID uuid.UUID, filter domain.FormFilter) ([]domain.TaxForm, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxForm), args.Int(1), args.Error(2)
}

func (m *MockFormService) ListAudit(ctx context.Context, tenantID, formID uuid.UUID, offset, limit int) ([]domain.TaxFormAuditEntry, int, error) {
	args := m.Called(ctx, tenantID, formID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxFormAuditEntry), args.Int(1), args.Error(2)
}
