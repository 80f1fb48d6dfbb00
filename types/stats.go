package types

// UserStats is the dashboard summary returned by the stats endpoint.
type UserStats struct {
	QuizzesTaken       int              `json:"quizzesTaken"`
	FlashcardsReviewed int              `json:"flashcardsReviewed"`
	Articles           []ArticleSummary `json:"articles"`

	// Fallback is true when any value above is sample data rather than the user's own.
	Fallback bool `json:"fallback"`
}

// ArticleSummary is a recently read article. Date is an ISO date or timestamp.
type ArticleSummary struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Date  string `json:"date" yaml:"date"`
}
