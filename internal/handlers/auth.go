package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/medilearn/apiserver/internal/metrics"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/types"
	"github.com/rs/zerolog"
)

// AuthHandler provides the login, logout and current-user endpoints.
type AuthHandler struct {
	userService *services.UserService
	sessions    *SessionManager
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, sessions *SessionManager) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
	}
}

// AuthRouter registers auth routes on the given router. loginLimit wraps the
// login route and may be nil.
func AuthRouter(r chi.Router, userService *services.UserService, sessions *SessionManager, loginLimit func(http.Handler) http.Handler) {
	handler := NewAuthHandler(userService, sessions)

	if loginLimit != nil {
		r.With(loginLimit).Post("/login", handler.Login)
	} else {
		r.Post("/login", handler.Login)
	}
	r.Post("/logout", handler.Logout)
	r.With(sessions.Require).Get("/me", handler.Me)
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	log := zerolog.Ctx(r.Context())
	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if _, err := h.sessions.Issue(w, user.ID); err != nil {
		log.Error().Err(err).Msg("failed to sign session token")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.Info().Str("user_id", user.ID).Msg("user logged in")
	writeJSON(w, http.StatusOK, LoginResponse{Message: "Login successful", User: user})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load user")
		writeError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}

type UserResponse struct {
	User types.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
