package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
)

// MockPayerProfileRepo is a mock implementation of port.PayerProfileRepository.
type MockPayerProfileRepo struct {
	mock.Mock
}

func (m *MockPayerProfileRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.PayerProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayerProfile), args.Error(1)
}
