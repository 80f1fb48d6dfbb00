package types

// Content types.
const (
	ContentVideo      = "video"
	ContentArticle    = "article"
	ContentQuiz       = "quiz"
	ContentFlashcards = "flashcards"
)

// ContentSource names where a content item comes from.
type ContentSource struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// ContentItem is a single recommendation entry.
type ContentItem struct {
	ID            string        `json:"id,omitempty" yaml:"id,omitempty"`
	Title         string        `json:"title" yaml:"title"`
	Description   string        `json:"description,omitempty" yaml:"description,omitempty"`
	Source        ContentSource `json:"source" yaml:"source"`
	Author        string        `json:"author,omitempty" yaml:"author,omitempty"`
	URL           string        `json:"url" yaml:"url"`
	URLToImage    string        `json:"urlToImage,omitempty" yaml:"urlToImage,omitempty"`
	PublishedAt   string        `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	Type          string        `json:"type" yaml:"type"`
	ContentType   string        `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	QuizQuestions int           `json:"quizQuestions,omitempty" yaml:"quizQuestions,omitempty"`
	CardCount     int           `json:"cardCount,omitempty" yaml:"cardCount,omitempty"`
	ReadTime      string        `json:"readTime,omitempty" yaml:"readTime,omitempty"`
}

// Category is a fixed health topic keying both static and searched content.
type Category struct {
	Name         string   `json:"name" yaml:"name"`
	Query        string   `json:"query" yaml:"query"`
	VideoSources []string `json:"videoSources" yaml:"videoSources"`
}

// Recommendations maps a category name to its merged content list.
type Recommendations map[string][]ContentItem
