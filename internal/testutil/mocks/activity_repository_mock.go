package mocks

import (
	"context"

	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/mock"
)

// MockActivityRepository is a mock implementation of services.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) InsertQuizAttempt(ctx context.Context, a types.QuizAttempt) (types.QuizAttempt, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(types.QuizAttempt), args.Error(1)
}

func (m *MockActivityRepository) InsertFlashcardSession(ctx context.Context, s types.FlashcardSession) (types.FlashcardSession, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(types.FlashcardSession), args.Error(1)
}

func (m *MockActivityRepository) InsertArticleRead(ctx context.Context, a types.ArticleRead) (types.ArticleRead, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(types.ArticleRead), args.Error(1)
}

func (m *MockActivityRepository) CountQuizAttempts(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityRepository) SumFlashcardsReviewed(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockActivityRepository) RecentArticleReads(ctx context.Context, userID string, limit int) ([]types.ArticleSummary, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ArticleSummary), args.Error(1)
}
