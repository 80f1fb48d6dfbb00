package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/medilearn/apiserver/internal/handlers"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/testutil/mocks"
	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activityRouter(service *services.ActivityService, sessions *handlers.SessionManager) http.Handler {
	r := chi.NewRouter()
	handlers.ActivityRouter(r, service, sessions)
	return r
}

func TestActivity_StoredDirectly(t *testing.T) {
	sessions := newSessions()
	repo := new(mocks.MockActivityRepository)
	repo.On("InsertQuizAttempt", mock.Anything, mock.MatchedBy(func(a types.QuizAttempt) bool {
		return a.UserID == "u1" && a.QuizID == "anatomy-basics" && a.Score == 8 && a.TotalQuestions == 10
	})).Return(types.QuizAttempt{ID: "q1"}, nil)
	router := activityRouter(services.NewActivityService(repo, nil, ""), sessions)

	rec := doRequest(t, router, http.MethodPost, "/quiz-attempts",
		`{"quizId":"anatomy-basics","score":8,"totalQuestions":10}`, sessionCookie(t, sessions, "u1"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "stored", decodeBody[handlers.ActivityResponse](t, rec).Status)
	repo.AssertExpectations(t)
}

func TestActivity_Queued(t *testing.T) {
	sessions := newSessions()
	publisher := new(mocks.MockPublisher)
	publisher.On("Publish", mock.Anything, "medilearn.activity", mock.Anything,
		map[string]string{"kind": string(types.ActivityArticleRead)}).Return("m1", nil)
	repo := new(mocks.MockActivityRepository)
	router := activityRouter(services.NewActivityService(repo, publisher, "medilearn.activity"), sessions)

	rec := doRequest(t, router, http.MethodPost, "/article-reads",
		`{"articleId":"news-sleep-recovery-0","title":"Healthy Sleep"}`, sessionCookie(t, sessions, "u1"))

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, "queued", decodeBody[handlers.ActivityResponse](t, rec).Status)
	repo.AssertNotCalled(t, "InsertArticleRead", mock.Anything, mock.Anything)
}

func TestActivity_Validation(t *testing.T) {
	sessions := newSessions()
	router := activityRouter(services.NewActivityService(new(mocks.MockActivityRepository), nil, ""), sessions)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"score above total", "/quiz-attempts", `{"quizId":"q","score":11,"totalQuestions":10}`},
		{"missing quiz id", "/quiz-attempts", `{"score":1,"totalQuestions":10}`},
		{"zero questions", "/quiz-attempts", `{"quizId":"q","score":0,"totalQuestions":0}`},
		{"no cards reviewed", "/flashcard-sessions", `{"category":"Anatomy","cardsReviewed":0}`},
		{"understood above reviewed", "/flashcard-sessions", `{"category":"Anatomy","cardsReviewed":3,"understood":4}`},
		{"missing title", "/article-reads", `{"articleId":"a1"}`},
		{"malformed", "/article-reads", `{"articleId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, tt.path, tt.body, sessionCookie(t, sessions, "u1"))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}
}

func TestActivity_RequiresSession(t *testing.T) {
	router := activityRouter(services.NewActivityService(new(mocks.MockActivityRepository), nil, ""), newSessions())

	rec := doRequest(t, router, http.MethodPost, "/flashcard-sessions", `{"category":"Anatomy","cardsReviewed":5}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActivity_StoreFailure(t *testing.T) {
	sessions := newSessions()
	repo := new(mocks.MockActivityRepository)
	repo.On("InsertFlashcardSession", mock.Anything, mock.Anything).Return(types.FlashcardSession{}, errors.New("disk full"))
	router := activityRouter(services.NewActivityService(repo, nil, ""), sessions)

	rec := doRequest(t, router, http.MethodPost, "/flashcard-sessions",
		`{"category":"Anatomy","cardsReviewed":5,"understood":3,"needReview":2}`, sessionCookie(t, sessions, "u1"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to record activity", errorMessage(t, rec))
}
