package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/medilearn/apiserver/config"
	"github.com/medilearn/apiserver/internal/handlers"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	cookieName = "auth-token"
)

func newSessions() *handlers.SessionManager {
	return handlers.NewSessionManager(config.SessionConfig{
		Secret:     testSecret,
		CookieName: cookieName,
		TTL:        time.Hour,
	})
}

// sessionCookie issues a token through the manager and returns the cookie it set.
func sessionCookie(t *testing.T, sessions *handlers.SessionManager, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := sessions.Issue(rec, userID)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func doRequest(t *testing.T, h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[handlers.ErrorResponse](t, rec).Error
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}
