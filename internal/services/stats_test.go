package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/medilearn/apiserver/internal/content"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/internal/testutil/mocks"
	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var fallbackArticles = []types.ArticleSummary{
	{ID: "1", Title: "Understanding Cardiovascular Health", Date: "2023-04-15"},
	{ID: "2", Title: "Nutrition Basics for Health Professionals", Date: "2023-04-10"},
	{ID: "3", Title: "Latest Advances in Immunology", Date: "2023-04-05"},
}

func TestStats_UnknownUserGetsFallback(t *testing.T) {
	users := new(mocks.MockUserRepository)
	activity := new(mocks.MockActivityRepository)
	users.On("GetByID", mock.Anything, "ghost").Return(types.User{}, store.ErrNotFound)

	svc := services.NewStatsService(users, activity, content.DefaultCatalog())
	stats := svc.ForUser(context.Background(), "ghost")

	assert.Equal(t, types.UserStats{
		QuizzesTaken:       5,
		FlashcardsReviewed: 43,
		Articles:           fallbackArticles,
		Fallback:           true,
	}, stats)
	activity.AssertNotCalled(t, "CountQuizAttempts", mock.Anything, mock.Anything)
}

func TestStats_UserLookupFailureGetsFallback(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, "u1").Return(types.User{}, errors.New("timeout"))

	svc := services.NewStatsService(users, new(mocks.MockActivityRepository), content.DefaultCatalog())
	stats := svc.ForUser(context.Background(), "u1")

	assert.True(t, stats.Fallback)
	assert.Equal(t, 5, stats.QuizzesTaken)
}

func TestStats_RealActivity(t *testing.T) {
	users := new(mocks.MockUserRepository)
	activity := new(mocks.MockActivityRepository)
	reads := []types.ArticleSummary{{ID: "a9", Title: "Sleep", Date: "2024-05-01T10:00:00Z"}}

	users.On("GetByID", mock.Anything, "u1").Return(types.User{ID: "u1"}, nil)
	activity.On("CountQuizAttempts", mock.Anything, "u1").Return(2, nil)
	activity.On("SumFlashcardsReviewed", mock.Anything, "u1").Return(17, nil)
	activity.On("RecentArticleReads", mock.Anything, "u1", 5).Return(reads, nil)

	svc := services.NewStatsService(users, activity, content.DefaultCatalog())
	stats := svc.ForUser(context.Background(), "u1")

	assert.Equal(t, types.UserStats{
		QuizzesTaken:       2,
		FlashcardsReviewed: 17,
		Articles:           reads,
	}, stats)
}

func TestStats_FailedQueriesDegradePerField(t *testing.T) {
	users := new(mocks.MockUserRepository)
	activity := new(mocks.MockActivityRepository)

	users.On("GetByID", mock.Anything, "u1").Return(types.User{ID: "u1"}, nil)
	activity.On("CountQuizAttempts", mock.Anything, "u1").Return(0, errors.New("boom"))
	activity.On("SumFlashcardsReviewed", mock.Anything, "u1").Return(9, nil)
	activity.On("RecentArticleReads", mock.Anything, "u1", 5).Return(nil, errors.New("boom"))

	svc := services.NewStatsService(users, activity, content.DefaultCatalog())
	stats := svc.ForUser(context.Background(), "u1")

	assert.Equal(t, 5, stats.QuizzesTaken)
	assert.Equal(t, 9, stats.FlashcardsReviewed)
	assert.Equal(t, fallbackArticles, stats.Articles)
	assert.True(t, stats.Fallback)
}
