package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockDeckStore is a mock implementation of services.DeckStore
type MockDeckStore struct {
	mock.Mock
}

func (m *MockDeckStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockDeckStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}
