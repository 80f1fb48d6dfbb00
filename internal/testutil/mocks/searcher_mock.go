package mocks

import (
	"context"

	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/mock"
)

// MockVideoSearcher is a mock implementation of content.VideoSearcher
type MockVideoSearcher struct {
	mock.Mock
}

func (m *MockVideoSearcher) SearchVideos(ctx context.Context, category types.Category, preferredSources []string) ([]types.ContentItem, error) {
	args := m.Called(ctx, category, preferredSources)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ContentItem), args.Error(1)
}

// MockArticleSearcher is a mock implementation of content.ArticleSearcher
type MockArticleSearcher struct {
	mock.Mock
}

func (m *MockArticleSearcher) SearchArticles(ctx context.Context, category types.Category) ([]types.ContentItem, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ContentItem), args.Error(1)
}
