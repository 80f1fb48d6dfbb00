package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/medilearn/apiserver/internal/handlers"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/internal/testutil/mocks"
	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func preferencesRouter(repo *mocks.MockPreferencesRepository, sessions *handlers.SessionManager) http.Handler {
	r := chi.NewRouter()
	handlers.PreferencesRouter(r, services.NewPreferencesService(repo), sessions)
	return r
}

func TestPreferences_NotFound(t *testing.T) {
	sessions := newSessions()
	repo := new(mocks.MockPreferencesRepository)
	repo.On("Get", mock.Anything, "u1").Return(types.Preferences{}, store.ErrNotFound)

	rec := doRequest(t, preferencesRouter(repo, sessions), http.MethodGet, "/", "", sessionCookie(t, sessions, "u1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Preferences not found", errorMessage(t, rec))
}

func TestPreferences_Save(t *testing.T) {
	sessions := newSessions()
	repo := new(mocks.MockPreferencesRepository)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(p types.Preferences) bool {
		return p.UserID == "u1" && p.AgeRange == "25-34" && assert.ObjectsAreEqual([]string{"Sleep & Recovery"}, p.Interests)
	})).Return(types.Preferences{UserID: "u1", AgeRange: "25-34", Interests: []string{"Sleep & Recovery"}}, nil)

	rec := doRequest(t, preferencesRouter(repo, sessions), http.MethodPost, "/",
		`{"ageRange":" 25-34 ","interests":["Sleep & Recovery","", "Sleep & Recovery"]}`, sessionCookie(t, sessions, "u1"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "25-34", decodeBody[types.Preferences](t, rec).AgeRange)
	repo.AssertExpectations(t)
}

func TestPreferences_RejectsOversizedAnswers(t *testing.T) {
	sessions := newSessions()
	repo := new(mocks.MockPreferencesRepository)

	rec := doRequest(t, preferencesRouter(repo, sessions), http.MethodPost, "/",
		`{"gender":"`+strings.Repeat("a", 60)+`"}`, sessionCookie(t, sessions, "u1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPreferences_RequiresSession(t *testing.T) {
	rec := doRequest(t, preferencesRouter(new(mocks.MockPreferencesRepository), newSessions()), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
