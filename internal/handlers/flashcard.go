package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/medilearn/apiserver/internal/services"
)

type FlashcardHandler struct {
	service *services.FlashcardService
}

func NewFlashcardHandler(service *services.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{service: service}
}

func FlashcardRouter(r chi.Router, service *services.FlashcardService) {
	handler := NewFlashcardHandler(service)
	r.Get("/", handler.List)
}

// List handles GET /api/flashcards?category=&limit=.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	cards := h.service.List(r.Context(), r.URL.Query().Get("category"), limit)
	writeJSON(w, http.StatusOK, cards)
}
