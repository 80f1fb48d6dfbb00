package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/validation"
	"github.com/medilearn/apiserver/types"
	"github.com/rs/zerolog"
)

// ActivityHandler records quiz attempts, flashcard sessions and article reads.
type ActivityHandler struct {
	service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// ActivityRouter registers activity routes. Routes require a session.
func ActivityRouter(r chi.Router, service *services.ActivityService, sessions *SessionManager) {
	handler := NewActivityHandler(service)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Require)
		r.Post("/quiz-attempts", handler.QuizAttempt)
		r.Post("/flashcard-sessions", handler.FlashcardSession)
		r.Post("/article-reads", handler.ArticleRead)
	})
}

type QuizAttemptRequest struct {
	QuizID         string `json:"quizId" validate:"required,max=200"`
	Score          int    `json:"score" validate:"min=0,ltefield=TotalQuestions"`
	TotalQuestions int    `json:"totalQuestions" validate:"min=1,max=1000"`
}

type FlashcardSessionRequest struct {
	Category      string `json:"category" validate:"required,max=100"`
	CardsReviewed int    `json:"cardsReviewed" validate:"min=1,max=1000"`
	Understood    int    `json:"understood" validate:"min=0,ltefield=CardsReviewed"`
	NeedReview    int    `json:"needReview" validate:"min=0,ltefield=CardsReviewed"`
}

type ArticleReadRequest struct {
	ArticleID string `json:"articleId" validate:"required,max=200"`
	Title     string `json:"title" validate:"required,max=500"`
}

type ActivityResponse struct {
	Status string `json:"status"`
}

func (h *ActivityHandler) QuizAttempt(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decodeActivity[QuizAttemptRequest](w, r)
	if !ok {
		return
	}
	delivery, err := h.service.RecordQuizAttempt(r.Context(), types.QuizAttempt{
		UserID:         userID,
		QuizID:         req.QuizID,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
	})
	writeDelivery(w, r, delivery, err)
}

func (h *ActivityHandler) FlashcardSession(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decodeActivity[FlashcardSessionRequest](w, r)
	if !ok {
		return
	}
	delivery, err := h.service.RecordFlashcardSession(r.Context(), types.FlashcardSession{
		UserID:        userID,
		Category:      req.Category,
		CardsReviewed: req.CardsReviewed,
		Understood:    req.Understood,
		NeedReview:    req.NeedReview,
	})
	writeDelivery(w, r, delivery, err)
}

func (h *ActivityHandler) ArticleRead(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decodeActivity[ArticleReadRequest](w, r)
	if !ok {
		return
	}
	delivery, err := h.service.RecordArticleRead(r.Context(), types.ArticleRead{
		UserID:    userID,
		ArticleID: req.ArticleID,
		Title:     req.Title,
	})
	writeDelivery(w, r, delivery, err)
}

func decodeActivity[T any](w http.ResponseWriter, r *http.Request) (string, T, bool) {
	var req T
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return "", req, false
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return "", req, false
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", req, false
	}
	return userID, req, true
}

func writeDelivery(w http.ResponseWriter, r *http.Request, delivery services.Delivery, err error) {
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to record activity")
		writeError(w, http.StatusInternalServerError, "Failed to record activity")
		return
	}
	status := http.StatusCreated
	if delivery == services.DeliveryQueued {
		status = http.StatusAccepted
	}
	writeJSON(w, status, ActivityResponse{Status: string(delivery)})
}
