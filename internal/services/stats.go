package services

import (
	"context"
	"errors"

	"github.com/medilearn/apiserver/internal/content"
	"github.com/medilearn/apiserver/internal/metrics"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/types"
	"github.com/rs/zerolog"
)

const recentArticlesLimit = 5

// ActivityRepository defines persistence operations for learning activity.
type ActivityRepository interface {
	InsertQuizAttempt(ctx context.Context, a types.QuizAttempt) (types.QuizAttempt, error)
	InsertFlashcardSession(ctx context.Context, s types.FlashcardSession) (types.FlashcardSession, error)
	InsertArticleRead(ctx context.Context, a types.ArticleRead) (types.ArticleRead, error)
	CountQuizAttempts(ctx context.Context, userID string) (int, error)
	SumFlashcardsReviewed(ctx context.Context, userID string) (int, error)
	RecentArticleReads(ctx context.Context, userID string, limit int) ([]types.ArticleSummary, error)
}

// StatsService builds the dashboard summary.
type StatsService struct {
	users    UserRepository
	activity ActivityRepository
	catalog  *content.Catalog
}

func NewStatsService(users UserRepository, activity ActivityRepository, catalog *content.Catalog) *StatsService {
	return &StatsService{users: users, activity: activity, catalog: catalog}
}

// ForUser never fails. Missing users, failed queries and zero counts are all
// replaced with sample values, and Fallback reports that this happened.
func (s *StatsService) ForUser(ctx context.Context, userID string) types.UserStats {
	log := zerolog.Ctx(ctx).With().Str("user_id", userID).Logger()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Msg("stats user lookup failed")
		}
		return s.fallback()
	}

	stats := types.UserStats{}

	quizzes, err := s.activity.CountQuizAttempts(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Msg("quiz attempt count failed")
	}
	stats.QuizzesTaken = quizzes

	cards, err := s.activity.SumFlashcardsReviewed(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Msg("flashcard sum failed")
	}
	stats.FlashcardsReviewed = cards

	articles, err := s.activity.RecentArticleReads(ctx, userID, recentArticlesLimit)
	if err != nil {
		log.Warn().Err(err).Msg("recent article reads failed")
		articles = nil
	}
	stats.Articles = articles

	fb := s.catalog.StatsFallback
	if stats.QuizzesTaken == 0 {
		stats.QuizzesTaken = fb.QuizzesTaken
		stats.Fallback = true
	}
	if stats.FlashcardsReviewed == 0 {
		stats.FlashcardsReviewed = fb.FlashcardsReviewed
		stats.Fallback = true
	}
	if len(stats.Articles) == 0 {
		stats.Articles = s.catalog.FallbackArticles()
		stats.Fallback = true
	}
	if stats.Fallback {
		metrics.FallbackServed.WithLabelValues("stats").Inc()
	}
	return stats
}

func (s *StatsService) fallback() types.UserStats {
	metrics.FallbackServed.WithLabelValues("stats").Inc()
	return types.UserStats{
		QuizzesTaken:       s.catalog.StatsFallback.QuizzesTaken,
		FlashcardsReviewed: s.catalog.StatsFallback.FlashcardsReviewed,
		Articles:           s.catalog.FallbackArticles(),
		Fallback:           true,
	}
}
