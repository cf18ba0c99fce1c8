package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxfiling/internal/port"
)

// MockArchiveStorage is a mock implementation of port.ArchiveStorage.
type MockArchiveStorage struct {
	mock.Mock
}

func (m *MockArchiveStorage) Upload(ctx context.Context, obj port.ArchiveObject) (*port.ArchivedObject, error) {
	args := m.Called(ctx, obj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ArchivedObject), args.Error(1)
}

func (m *MockArchiveStorage) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	args := m.Called(ctx, bucket, key, expirySeconds)
	return args.String(0), args.Error(1)
}
