package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/medilearn/apiserver/internal/mq"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/internal/testutil/mocks"
	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivity_DirectWriteWithoutQueue(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	repo.On("InsertQuizAttempt", mock.Anything, mock.MatchedBy(func(a types.QuizAttempt) bool {
		return a.UserID == "u1" && a.QuizID == "anatomy-101" && a.Score == 8 && !a.CompletedAt.IsZero()
	})).Return(types.QuizAttempt{ID: "q1"}, nil)

	svc := services.NewActivityService(repo, nil, "medilearn.activity")
	delivery, err := svc.RecordQuizAttempt(context.Background(), types.QuizAttempt{
		UserID:         "u1",
		QuizID:         "anatomy-101",
		Score:          8,
		TotalQuestions: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, services.DeliveryStored, delivery)
	repo.AssertExpectations(t)
}

func TestActivity_PublishesWhenQueueConfigured(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	pub := new(mocks.MockPublisher)

	var published types.ActivityEvent
	pub.On("Publish", mock.Anything, "medilearn.activity", mock.Anything, map[string]string{"kind": "article_read"}).
		Run(func(args mock.Arguments) {
			require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &published))
		}).
		Return("msg-1", nil)

	svc := services.NewActivityService(repo, pub, "medilearn.activity")
	delivery, err := svc.RecordArticleRead(context.Background(), types.ArticleRead{
		UserID:    "u1",
		ArticleID: "news-Sleep-&-Recovery-0",
		Title:     "Sleep well",
	})

	require.NoError(t, err)
	assert.Equal(t, services.DeliveryQueued, delivery)
	assert.Equal(t, types.ActivityArticleRead, published.Kind)
	assert.Equal(t, "u1", published.UserID)
	assert.NotEmpty(t, published.ID)
	require.NotNil(t, published.ArticleRead)
	assert.Equal(t, "Sleep well", published.ArticleRead.Title)
	repo.AssertNotCalled(t, "InsertArticleRead", mock.Anything, mock.Anything)
}

func TestActivity_PublishFailure(t *testing.T) {
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("broker down"))

	svc := services.NewActivityService(new(mocks.MockActivityRepository), pub, "medilearn.activity")
	_, err := svc.RecordFlashcardSession(context.Background(), types.FlashcardSession{UserID: "u1", CardsReviewed: 10})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestHandleMessage(t *testing.T) {
	session := types.FlashcardSession{Category: "Anatomy", CardsReviewed: 10, Understood: 7, NeedReview: 3}
	event := types.ActivityEvent{
		ID:               "e1",
		Kind:             types.ActivityFlashcardSession,
		UserID:           "u1",
		FlashcardSession: &session,
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("persists", func(t *testing.T) {
		repo := new(mocks.MockActivityRepository)
		repo.On("InsertFlashcardSession", mock.Anything, mock.MatchedBy(func(s types.FlashcardSession) bool {
			return s.UserID == "u1" && s.CardsReviewed == 10
		})).Return(types.FlashcardSession{ID: "f1"}, nil)

		svc := services.NewActivityService(repo, nil, "")
		require.NoError(t, svc.HandleMessage(context.Background(), mq.Message{ID: "m1", Data: data}))
		repo.AssertExpectations(t)
	})

	t.Run("store failure is retried", func(t *testing.T) {
		repo := new(mocks.MockActivityRepository)
		repo.On("InsertFlashcardSession", mock.Anything, mock.Anything).
			Return(types.FlashcardSession{}, errors.New("write conflict"))

		svc := services.NewActivityService(repo, nil, "")
		assert.Error(t, svc.HandleMessage(context.Background(), mq.Message{ID: "m1", Data: data}))
	})

	t.Run("bad user id is dropped", func(t *testing.T) {
		repo := new(mocks.MockActivityRepository)
		repo.On("InsertFlashcardSession", mock.Anything, mock.Anything).
			Return(types.FlashcardSession{}, store.ErrNotFound)

		svc := services.NewActivityService(repo, nil, "")
		assert.NoError(t, svc.HandleMessage(context.Background(), mq.Message{ID: "m1", Data: data}))
	})

	t.Run("garbage is dropped", func(t *testing.T) {
		svc := services.NewActivityService(new(mocks.MockActivityRepository), nil, "")
		assert.NoError(t, svc.HandleMessage(context.Background(), mq.Message{ID: "m2", Data: []byte("not json")}))
	})

	t.Run("unknown kind is dropped", func(t *testing.T) {
		svc := services.NewActivityService(new(mocks.MockActivityRepository), nil, "")
		assert.NoError(t, svc.HandleMessage(context.Background(), mq.Message{ID: "m3", Data: []byte(`{"kind":"badge"}`)}))
	})
}
