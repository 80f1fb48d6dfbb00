package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medilearn/apiserver/internal/services"
)

// StatsHandler serves the dashboard summary.
type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// StatsRouter registers the stats route. Routes require a session.
func StatsRouter(r chi.Router, statsService *services.StatsService, sessions *SessionManager) {
	handler := NewStatsHandler(statsService)
	r.With(sessions.Require).Get("/stats", handler.Get)
}

// Get always answers 200; missing data is replaced with sample values.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, h.statsService.ForUser(r.Context(), userID))
}
