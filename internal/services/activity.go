package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/medilearn/apiserver/internal/metrics"
	"github.com/medilearn/apiserver/internal/mq"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/types"
	"github.com/rs/zerolog"
)

// Delivery reports how an activity record was handled.
type Delivery string

const (
	DeliveryQueued Delivery = "queued"
	DeliveryStored Delivery = "stored"
)

// ErrInvalidEvent marks an activity event that can never be persisted.
var ErrInvalidEvent = errors.New("invalid activity event")

// Publisher sends messages to a broker channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// ActivityService records learning activity, through the queue when one is
// configured and directly otherwise.
type ActivityService struct {
	repo      ActivityRepository
	publisher Publisher
	channel   string
	now       func() time.Time
}

// NewActivityService constructs the service. publisher may be nil.
func NewActivityService(repo ActivityRepository, publisher Publisher, channel string) *ActivityService {
	return &ActivityService{
		repo:      repo,
		publisher: publisher,
		channel:   channel,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ActivityService) RecordQuizAttempt(ctx context.Context, a types.QuizAttempt) (Delivery, error) {
	now := s.now()
	if a.CompletedAt.IsZero() {
		a.CompletedAt = now
	}
	return s.record(ctx, types.ActivityEvent{
		Kind:        types.ActivityQuizAttempt,
		UserID:      a.UserID,
		OccurredAt:  now,
		QuizAttempt: &a,
	})
}

func (s *ActivityService) RecordFlashcardSession(ctx context.Context, fs types.FlashcardSession) (Delivery, error) {
	now := s.now()
	if fs.CompletedAt.IsZero() {
		fs.CompletedAt = now
	}
	return s.record(ctx, types.ActivityEvent{
		Kind:             types.ActivityFlashcardSession,
		UserID:           fs.UserID,
		OccurredAt:       now,
		FlashcardSession: &fs,
	})
}

func (s *ActivityService) RecordArticleRead(ctx context.Context, a types.ArticleRead) (Delivery, error) {
	now := s.now()
	if a.ReadDate.IsZero() {
		a.ReadDate = now
	}
	return s.record(ctx, types.ActivityEvent{
		Kind:        types.ActivityArticleRead,
		UserID:      a.UserID,
		OccurredAt:  now,
		ArticleRead: &a,
	})
}

func (s *ActivityService) record(ctx context.Context, event types.ActivityEvent) (Delivery, error) {
	event.ID = uuid.NewString()

	if s.publisher == nil {
		if err := s.Persist(ctx, event); err != nil {
			return "", err
		}
		metrics.ActivityRecorded.WithLabelValues(string(event.Kind), string(DeliveryStored)).Inc()
		return DeliveryStored, nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("encode activity event: %w", err)
	}
	if _, err := s.publisher.Publish(ctx, s.channel, data, map[string]string{"kind": string(event.Kind)}); err != nil {
		return "", fmt.Errorf("publish activity event: %w", err)
	}
	metrics.ActivityRecorded.WithLabelValues(string(event.Kind), string(DeliveryQueued)).Inc()
	return DeliveryQueued, nil
}

// Persist writes the payload of an event to the activity store.
func (s *ActivityService) Persist(ctx context.Context, event types.ActivityEvent) error {
	switch event.Kind {
	case types.ActivityQuizAttempt:
		if event.QuizAttempt == nil {
			return fmt.Errorf("%w: missing quiz attempt", ErrInvalidEvent)
		}
		a := *event.QuizAttempt
		a.UserID = event.UserID
		_, err := s.repo.InsertQuizAttempt(ctx, a)
		return err
	case types.ActivityFlashcardSession:
		if event.FlashcardSession == nil {
			return fmt.Errorf("%w: missing flashcard session", ErrInvalidEvent)
		}
		fs := *event.FlashcardSession
		fs.UserID = event.UserID
		_, err := s.repo.InsertFlashcardSession(ctx, fs)
		return err
	case types.ActivityArticleRead:
		if event.ArticleRead == nil {
			return fmt.Errorf("%w: missing article read", ErrInvalidEvent)
		}
		a := *event.ArticleRead
		a.UserID = event.UserID
		_, err := s.repo.InsertArticleRead(ctx, a)
		return err
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, event.Kind)
	}
}

// HandleMessage is the worker's queue handler. Undecodable or unpersistable
// events are dropped; store failures are returned so the broker redelivers.
func (s *ActivityService) HandleMessage(ctx context.Context, msg mq.Message) error {
	log := zerolog.Ctx(ctx).With().Str("message_id", msg.ID).Logger()

	var event types.ActivityEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Warn().Err(err).Msg("dropping undecodable activity event")
		return nil
	}

	err := s.Persist(ctx, event)
	switch {
	case err == nil:
		log.Debug().Str("kind", string(event.Kind)).Str("event_id", event.ID).Msg("activity event persisted")
		return nil
	case errors.Is(err, ErrInvalidEvent), errors.Is(err, store.ErrNotFound):
		log.Warn().Err(err).Str("event_id", event.ID).Msg("dropping activity event")
		return nil
	default:
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to persist activity event")
		return err
	}
}
