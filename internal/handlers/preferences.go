package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/internal/validation"
	"github.com/medilearn/apiserver/types"
	"github.com/rs/zerolog"
)

type PreferencesHandler struct {
	service *services.PreferencesService
}

func NewPreferencesHandler(service *services.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{service: service}
}

// PreferencesRouter registers the questionnaire routes. Routes require a session.
func PreferencesRouter(r chi.Router, service *services.PreferencesService, sessions *SessionManager) {
	handler := NewPreferencesHandler(service)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Require)
		r.Get("/", handler.Get)
		r.Post("/", handler.Save)
	})
}

type PreferencesRequest struct {
	AgeRange           string   `json:"ageRange" validate:"max=50"`
	Gender             string   `json:"gender" validate:"max=50"`
	HealthGoals        []string `json:"healthGoals" validate:"max=20,dive,max=100"`
	Interests          []string `json:"interests" validate:"max=20,dive,max=100"`
	Conditions         string   `json:"conditions" validate:"max=2000"`
	LearningStyle      string   `json:"learningStyle" validate:"max=50"`
	TimeCommitment     string   `json:"timeCommitment" validate:"max=50"`
	DietaryPreferences []string `json:"dietaryPreferences" validate:"max=20,dive,max=100"`
	ActivityLevel      string   `json:"activityLevel" validate:"max=50"`
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	prefs, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preferences not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load preferences")
		writeError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *PreferencesHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req PreferencesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.service.Save(r.Context(), types.Preferences{
		UserID:             userID,
		AgeRange:           req.AgeRange,
		Gender:             req.Gender,
		HealthGoals:        req.HealthGoals,
		Interests:          req.Interests,
		Conditions:         req.Conditions,
		LearningStyle:      req.LearningStyle,
		TimeCommitment:     req.TimeCommitment,
		DietaryPreferences: req.DietaryPreferences,
		ActivityLevel:      req.ActivityLevel,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to save preferences")
		writeError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
