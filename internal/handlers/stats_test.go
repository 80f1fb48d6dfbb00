package handlers_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/medilearn/apiserver/internal/content"
	"github.com/medilearn/apiserver/internal/handlers"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/internal/testutil/mocks"
	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func statsRouter(users *mocks.MockUserRepository, activity *mocks.MockActivityRepository, sessions *handlers.SessionManager) http.Handler {
	r := chi.NewRouter()
	handlers.StatsRouter(r, services.NewStatsService(users, activity, content.DefaultCatalog()), sessions)
	return r
}

func TestStats_RequiresSession(t *testing.T) {
	rec := doRequest(t, statsRouter(new(mocks.MockUserRepository), new(mocks.MockActivityRepository), newSessions()),
		http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStats_UnknownUserGetsSampleData(t *testing.T) {
	sessions := newSessions()
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, "ghost").Return(types.User{}, store.ErrNotFound)

	rec := doRequest(t, statsRouter(users, new(mocks.MockActivityRepository), sessions),
		http.MethodGet, "/stats", "", sessionCookie(t, sessions, "ghost"))

	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[types.UserStats](t, rec)
	assert.Equal(t, 5, stats.QuizzesTaken)
	assert.Equal(t, 43, stats.FlashcardsReviewed)
	require.Len(t, stats.Articles, 3)
	assert.Equal(t, "Understanding Cardiovascular Health", stats.Articles[0].Title)
	assert.True(t, stats.Fallback)
}

func TestStats_RealCounts(t *testing.T) {
	sessions := newSessions()
	users := new(mocks.MockUserRepository)
	activity := new(mocks.MockActivityRepository)
	reads := []types.ArticleSummary{{ID: "a1", Title: "Healthy Sleep", Date: "2025-01-02T08:00:00Z"}}
	users.On("GetByID", mock.Anything, "u1").Return(types.User{ID: "u1"}, nil)
	activity.On("CountQuizAttempts", mock.Anything, "u1").Return(7, nil)
	activity.On("SumFlashcardsReviewed", mock.Anything, "u1").Return(120, nil)
	activity.On("RecentArticleReads", mock.Anything, "u1", 5).Return(reads, nil)

	rec := doRequest(t, statsRouter(users, activity, sessions),
		http.MethodGet, "/stats", "", sessionCookie(t, sessions, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.UserStats{QuizzesTaken: 7, FlashcardsReviewed: 120, Articles: reads}, decodeBody[types.UserStats](t, rec))
}
