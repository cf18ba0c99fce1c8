package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxfiling/internal/port"
)

// MockTINVault is a mock implementation of port.TINVault.
type MockTINVault struct {
	mock.Mock
}

func (m *MockTINVault) Encrypt(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockTINVault) Decrypt(ctx context.Context, ciphertext, actor, reason string, dc port.DecryptContext) (string, error) {
	args := m.Called(ctx, ciphertext, actor, reason, dc)
	return args.String(0), args.Error(1)
}
