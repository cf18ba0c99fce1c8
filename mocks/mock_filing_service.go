package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// MockFilingService is a mock implementation of service.FilingService.
type MockFilingService struct {
	mock.Mock
}

func (m *MockFilingService) ValidateForFiling(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) (*service.FilingValidation, error) {
	args := m.Called(ctx, tenantID, year, payeeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FilingValidation), args.Error(1)
}

func (m *MockFilingService) GenerateFilingExport(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType, actor string) (*service.FilingExport, error) {
	args := m.Called(ctx, tenantID, year, payeeType, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FilingExport), args.Error(1)
}

func (m *MockFilingService) MarkFiledBulk(ctx context.Context, tenantID uuid.UUID, formIDs []string, confirmation, actor string) (*service.BulkFileResult, error) {
	args := m.Called(ctx, tenantID, formIDs, confirmation, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkFileResult), args.Error(1)
}

func (m *MockFilingService) GenerateReviewWorkbook(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) ([]byte, error) {
	args := m.Called(ctx, tenantID, year, payeeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFilingService) ArchiveDownloadURL(ctx context.Context, tenantID uuid.UUID, key string) (string, error) {
	args := m.Called(ctx, tenantID, key)
	return args.String(0), args.Error(1)
}
