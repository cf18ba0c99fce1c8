package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxfiling/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendW9Reminder(ctx context.Context, reminder port.W9Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}
