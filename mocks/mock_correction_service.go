package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
	"taxfiling/internal/service"
)

// MockCorrectionService is a mock implementation of service.CorrectionService.
type MockCorrectionService struct {
	mock.Mock
}

func (m *MockCorrectionService) CreateType1(ctx context.Context, input *service.Type1CorrectionInput) (*domain.TaxForm, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxForm), args.Error(1)
}

func (m *MockCorrectionService) CreateType2(ctx context.Context, input *service.Type2CorrectionInput) (*domain.TaxForm, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxForm), args.Error(1)
}
