package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/rs/zerolog"
)

// RecommendationHandler serves merged content recommendations.
type RecommendationHandler struct {
	service *services.RecommendationService
}

func NewRecommendationHandler(service *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

func RecommendationRouter(r chi.Router, service *services.RecommendationService) {
	handler := NewRecommendationHandler(service)
	r.Post("/", handler.Recommend)
	r.Get("/", handler.Sample)
	r.Get("/categories", handler.Categories)
}

// RecommendationRequest keeps the raw fields so that a non-array categories
// value can be told apart from a malformed body.
type RecommendationRequest struct {
	Categories       json.RawMessage `json:"categories"`
	PreferredSources json.RawMessage `json:"preferredSources"`
}

func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	categories, ok := stringArray(req.Categories)
	if !ok {
		writeError(w, http.StatusBadRequest, "Categories must be an array")
		return
	}
	preferred, _ := stringArray(req.PreferredSources)

	recs, err := h.service.Recommend(r.Context(), categories, preferred)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("recommendations aborted")
		} else {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("recommendations failed")
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch content recommendations")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// Sample returns static content for the first two categories.
func (h *RecommendationHandler) Sample(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Sample())
}

func (h *RecommendationHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Categories())
}

// stringArray decodes a JSON array and keeps its string elements. An absent or
// null value is an empty array; any other non-array value is rejected.
func stringArray(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, true
	}
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}
