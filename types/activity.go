package types

import "time"

// QuizAttempt records one completed quiz.
type QuizAttempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	QuizID         string    `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`
}

// FlashcardSession records one swipe-through of a flashcard deck.
type FlashcardSession struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Category      string    `json:"category"`
	CardsReviewed int       `json:"cardsReviewed"`
	Understood    int       `json:"understood"`
	NeedReview    int       `json:"needReview"`
	CompletedAt   time.Time `json:"completedAt"`
}

// ArticleRead records that a user opened an article.
type ArticleRead struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ArticleID string    `json:"articleId"`
	Title     string    `json:"title"`
	ReadDate  time.Time `json:"readDate"`
}

// ActivityKind names the activity carried by an ActivityEvent.
type ActivityKind string

const (
	ActivityQuizAttempt      ActivityKind = "quiz_attempt"
	ActivityFlashcardSession ActivityKind = "flashcard_session"
	ActivityArticleRead      ActivityKind = "article_read"
)

// ActivityEvent is the queued form of an activity record. Exactly one of the
// payload fields is set, matching Kind.
type ActivityEvent struct {
	ID               string            `json:"id"`
	Kind             ActivityKind      `json:"kind"`
	UserID           string            `json:"userId"`
	OccurredAt       time.Time         `json:"occurredAt"`
	QuizAttempt      *QuizAttempt      `json:"quizAttempt,omitempty"`
	FlashcardSession *FlashcardSession `json:"flashcardSession,omitempty"`
	ArticleRead      *ArticleRead      `json:"articleRead,omitempty"`
}
