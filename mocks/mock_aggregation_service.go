package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
)

// MockAggregationService is a mock implementation of service.AggregationService.
type MockAggregationService struct {
	mock.Mock
}

func (m *MockAggregationService) AnnualTotal(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (int64, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAggregationService) MonthlyBreakdown(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, payeeID string, year int) (map[int]int64, error) {
	args := m.Called(ctx, tenantID, payeeType, payeeID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int64), args.Error(1)
}

func (m *MockAggregationService) PayeesRequiring1099(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeSummary, error) {
	args := m.Called(ctx, tenantID, payeeType, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayeeSummary), args.Error(1)
}

func (m *MockAggregationService) PayeesApproachingThreshold(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year, minPercent int) ([]domain.PayeeSummary, error) {
	args := m.Called(ctx, tenantID, payeeType, year, minPercent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayeeSummary), args.Error(1)
}

func (m *MockAggregationService) PayeesMissingW9(ctx context.Context, tenantID uuid.UUID, payeeType domain.PayeeType, year int) ([]domain.PayeeSummary, error) {
	args := m.Called(ctx, tenantID, payeeType, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayeeSummary), args.Error(1)
}

func (m *MockAggregationService) YearStatistics(ctx context.Context, tenantID uuid.UUID, year int, payeeType *domain.PayeeType) (*domain.YearStatistics, error) {
	args := m.Called(ctx, tenantID, year, payeeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.YearStatistics), args.Error(1)
}

func (m *MockAggregationService) InvalidateYear(ctx context.Context, tenantID uuid.UUID, year int) {
	m.Called(ctx, tenantID, year)
}
