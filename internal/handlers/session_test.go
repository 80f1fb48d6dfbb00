package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medilearn/apiserver/config"
	"github.com/medilearn/apiserver/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.RegisteredClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestSession_Subject(t *testing.T) {
	sessions := newSessions()
	now := time.Now()

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		subject string
		wantErr bool
	}{
		{
			name:    "no token",
			prepare: func(r *http.Request) {},
			wantErr: true,
		},
		{
			name: "cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(sessionCookie(t, sessions, "u1"))
			},
			subject: "u1",
		},
		{
			name: "bearer header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+sessionCookie(t, sessions, "u2").Value)
			},
			subject: "u2",
		},
		{
			name: "expired",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: signed(t, jwt.RegisteredClaims{
					Issuer:    "medilearn",
					Subject:   "u1",
					ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
				}, testSecret)})
			},
			wantErr: true,
		},
		{
			name: "wrong secret",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: signed(t, jwt.RegisteredClaims{
					Issuer:    "medilearn",
					Subject:   "u1",
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				}, "another-secret-another-secret-xx")})
			},
			wantErr: true,
		},
		{
			name: "foreign issuer",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: signed(t, jwt.RegisteredClaims{
					Issuer:    "someone-else",
					Subject:   "u1",
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				}, testSecret)})
			},
			wantErr: true,
		},
		{
			name: "no expiry",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: signed(t, jwt.RegisteredClaims{
					Issuer:  "medilearn",
					Subject: "u1",
				}, testSecret)})
			},
			wantErr: true,
		},
		{
			name: "raw user id from the old cookie format",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: "64b7f0c2a1b2c3d4e5f60718"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)

			subject, err := sessions.Subject(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.subject, subject)
		})
	}
}

func TestSession_IssueHonoursConfig(t *testing.T) {
	sessions := handlers.NewSessionManager(config.SessionConfig{
		Secret:     testSecret,
		CookieName: "sid",
		TTL:        2 * time.Hour,
		Secure:     true,
	})

	rec := httptest.NewRecorder()
	token, err := sessions.Issue(rec, "u1")
	require.NoError(t, err)

	cookie := findCookie(rec, "sid")
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.Secure)
	assert.Equal(t, int((2 * time.Hour).Seconds()), cookie.MaxAge)
}
