package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "auron-backend/internal/api/http"
	"auron-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenManager() security.TokenManager {
	return security.NewTokenManager("0123456789abcdef0123456789abcdef")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionGate_RedirectsAnonymous(t *testing.T) {
	gate := httpapi.SessionGate(newTokenManager(), okHandler())

	for _, path := range []string{"/walkthrough", "/cases/abc", "/viewer", "/report/1", "/feedback"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code, "path %s", path)
		assert.Contains(t, rec.Header().Get("Location"), "/demo?callbackUrl=", "path %s", path)
	}
}

func TestSessionGate_CallbackURLCarriesPathAndQuery(t *testing.T) {
	gate := httpapi.SessionGate(newTokenManager(), okHandler())

	req := httptest.NewRequest(http.MethodGet, "/cases/abc?tab=vessels", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/demo?callbackUrl=%2Fcases%2Fabc%3Ftab%3Dvessels", rec.Header().Get("Location"))
}

func TestSessionGate_AllowsValidSession(t *testing.T) {
	tokens := newTokenManager()
	gate := httpapi.SessionGate(tokens, okHandler())

	session, err := tokens.IssueUserSession("jane@clinic.org", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/walkthrough", nil)
	req.AddCookie(&http.Cookie{Name: httpapi.SessionCookieName, Value: session})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGate_RejectsExpiredAndAdminSessions(t *testing.T) {
	tokens := newTokenManager()
	gate := httpapi.SessionGate(tokens, okHandler())

	expired, err := tokens.IssueUserSession("jane@clinic.org", -time.Minute)
	require.NoError(t, err)
	admin, err := tokens.IssueAdminSession(time.Hour)
	require.NoError(t, err)

	for _, value := range []string{expired, admin, "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/viewer", nil)
		req.AddCookie(&http.Cookie{Name: httpapi.SessionCookieName, Value: value})
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
	}
}

func TestSessionGate_IgnoresPublicAndAPIPaths(t *testing.T) {
	gate := httpapi.SessionGate(newTokenManager(), okHandler())

	for _, path := range []string{"/", "/demo", "/about", "/api/feedback", "/api/auth/callback"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := newTokenManager()
	var reached bool
	handler := httpapi.RequireAdmin(tokens, func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("NoCookie", func(t *testing.T) {
		reached = false
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/admin/requests/approve", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
		assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	})

	t.Run("UserSessionRejected", func(t *testing.T) {
		reached = false
		session, err := tokens.IssueUserSession("jane@clinic.org", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/requests/approve", nil)
		req.AddCookie(&http.Cookie{Name: httpapi.AdminCookieName, Value: session})
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("AdminSessionAccepted", func(t *testing.T) {
		reached = false
		session, err := tokens.IssueAdminSession(time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/requests/approve", nil)
		req.AddCookie(&http.Cookie{Name: httpapi.AdminCookieName, Value: session})
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})
}
