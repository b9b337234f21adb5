package http

import (
	"net/http"
	"net/url"
	"strings"

	"auron-backend/internal/security"
)

// protectedPrefixes lists the gated prototype pages. API routes carry their
// own authorization and are never intercepted here.
var protectedPrefixes = []string{"/walkthrough", "/cases", "/viewer", "/report", "/feedback"}

const signInPath = "/demo"

// SessionGate redirects unauthenticated requests to gated pages to the
// sign-in entry point, carrying the originally requested path and query as
// callbackUrl. It wraps the whole router so the check runs before routing.
func SessionGate(tokens security.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isProtectedPath(r.URL.Path) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || !validSession(tokens, cookie.Value) {
				target := signInPath + "?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isProtectedPath(path string) bool {
	if strings.HasPrefix(path, "/api/") {
		return false
	}
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func validSession(tokens security.TokenManager, value string) bool {
	_, err := tokens.ValidateUserSession(value)
	return err == nil
}

// RequireAdmin gates a handler on a currently valid admin session cookie.
// It runs before the wrapped handler touches any store.
func RequireAdmin(tokens security.TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AdminCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "Admin session required.")
			return
		}
		if _, err := tokens.ValidateAdminSession(cookie.Value); err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "Admin session required.")
			return
		}
		next(w, r)
	}
}

// sanitizeReturnPath honors only a same-origin path: it must start with a
// single "/" (not "//", which browsers treat as scheme-relative). Anything
// else falls back, closing the open-redirect hole a crafted callbackUrl
// would otherwise open.
func sanitizeReturnPath(path, fallback string) string {
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return fallback
	}
	return path
}
