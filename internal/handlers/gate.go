package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

const loginPath = "/auth/login"

var (
	protectedPagePrefixes = []string{"/personalized", "/profile"}
	excludedPagePrefixes  = []string{"/personalized/direct"}
)

// PageGate redirects unauthenticated page requests under the protected prefixes
// to the login page.
type PageGate struct {
	sessions *SessionManager
}

func NewPageGate(sessions *SessionManager) *PageGate {
	return &PageGate{sessions: sessions}
}

// Middleware applies the gate in front of the page handler.
func (g *PageGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !isProtectedPage(path) {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := g.sessions.Subject(r); err != nil {
			if !errors.Is(err, errNoSession) {
				g.sessions.Clear(w)
			}
			zerolog.Ctx(r.Context()).Debug().Str("path", path).Msg("redirecting to login")
			http.Redirect(w, r, LoginRedirect(path), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginRedirect builds the login URL that returns the user to path. The bare
// questionnaire path is sent to its direct variant.
func LoginRedirect(path string) string {
	target := path
	if target == "/personalized" {
		target = "/personalized/direct"
	}
	q := url.Values{}
	q.Set("redirectTo", target)
	return loginPath + "?" + q.Encode()
}

func isProtectedPage(path string) bool {
	for _, prefix := range excludedPagePrefixes {
		if hasPathPrefix(path, prefix) {
			return false
		}
	}
	for _, prefix := range protectedPagePrefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPathPrefix matches whole path segments, so /profiles is not under /profile.
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// PagesHandler proxies page requests to the front-end, or answers 404 when no
// front-end is configured.
func PagesHandler(frontendURL string) (http.Handler, error) {
	if strings.TrimSpace(frontendURL) == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "Not found")
		}), nil
	}

	target, err := url.Parse(frontendURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid FRONTEND_URL %q", frontendURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("front-end proxy failed")
		writeError(w, http.StatusBadGateway, "Front-end unavailable")
	}
	return proxy, nil
}
