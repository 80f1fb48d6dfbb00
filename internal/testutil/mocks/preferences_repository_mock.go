package mocks

import (
	"context"

	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/mock"
)

// MockPreferencesRepository is a mock implementation of services.PreferencesRepository
type MockPreferencesRepository struct {
	mock.Mock
}

func (m *MockPreferencesRepository) Get(ctx context.Context, userID string) (types.Preferences, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(types.Preferences), args.Error(1)
}

func (m *MockPreferencesRepository) Upsert(ctx context.Context, p types.Preferences) (types.Preferences, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(types.Preferences), args.Error(1)
}
