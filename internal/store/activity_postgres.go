package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/medilearn/apiserver/types"
)

// PostgresActivityRepository handles the activity tables in Postgres.
type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) InsertQuizAttempt(ctx context.Context, a types.QuizAttempt) (types.QuizAttempt, error) {
	if _, err := uuid.Parse(a.UserID); err != nil {
		return types.QuizAttempt{}, ErrNotFound
	}
	a.ID = uuid.NewString()
	const query = `
		INSERT INTO quiz_attempts (id, user_id, quiz_id, score, total_questions, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.UserID, a.QuizID, a.Score, a.TotalQuestions, a.CompletedAt); err != nil {
		return types.QuizAttempt{}, err
	}
	return a, nil
}

func (r *PostgresActivityRepository) InsertFlashcardSession(ctx context.Context, s types.FlashcardSession) (types.FlashcardSession, error) {
	if _, err := uuid.Parse(s.UserID); err != nil {
		return types.FlashcardSession{}, ErrNotFound
	}
	s.ID = uuid.NewString()
	const query = `
		INSERT INTO flashcard_sessions (id, user_id, category, cards_reviewed, understood, need_review, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Category, s.CardsReviewed, s.Understood, s.NeedReview, s.CompletedAt); err != nil {
		return types.FlashcardSession{}, err
	}
	return s, nil
}

func (r *PostgresActivityRepository) InsertArticleRead(ctx context.Context, a types.ArticleRead) (types.ArticleRead, error) {
	if _, err := uuid.Parse(a.UserID); err != nil {
		return types.ArticleRead{}, ErrNotFound
	}
	a.ID = uuid.NewString()
	const query = `
		INSERT INTO article_reads (id, user_id, article_id, title, read_date)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.UserID, a.ArticleID, a.Title, a.ReadDate); err != nil {
		return types.ArticleRead{}, err
	}
	return a, nil
}

func (r *PostgresActivityRepository) CountQuizAttempts(ctx context.Context, userID string) (int, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, ErrNotFound
	}
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PostgresActivityRepository) SumFlashcardsReviewed(ctx context.Context, userID string) (int, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, ErrNotFound
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cards_reviewed), 0) FROM flashcard_sessions WHERE user_id = $1`,
		userID,
	).Scan(&n)
	return n, err
}

func (r *PostgresActivityRepository) RecentArticleReads(ctx context.Context, userID string, limit int) ([]types.ArticleSummary, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotFound
	}
	const query = `
		SELECT article_id, title, read_date
		FROM article_reads
		WHERE user_id = $1
		ORDER BY read_date DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ArticleSummary
	for rows.Next() {
		var (
			summary  types.ArticleSummary
			readDate time.Time
		)
		if err := rows.Scan(&summary.ID, &summary.Title, &readDate); err != nil {
			return nil, err
		}
		summary.Date = readDate.UTC().Format(time.RFC3339)
		out = append(out, summary)
	}
	return out, rows.Err()
}
