package http

import (
	"errors"
	"net/http"
	"time"

	"auron-backend/internal/forms"
	"auron-backend/internal/logger"
	"auron-backend/internal/service"
)

// AuthHandler serves the magic-link sign-in flow.
type AuthHandler struct {
	authSvc       service.AuthService
	sessionTTL    time.Duration
	defaultNext   string
	secureCookies bool
}

func NewAuthHandler(authSvc service.AuthService, sessionTTL time.Duration, defaultNext string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authSvc:       authSvc,
		sessionTTL:    sessionTTL,
		defaultNext:   defaultNext,
		secureCookies: secureCookies,
	}
}

type requestLinkBody struct {
	Email       string `json:"email"`
	CallbackURL string `json:"callbackUrl"`
}

func (h *AuthHandler) RequestLink(w http.ResponseWriter, r *http.Request) {
	var body requestLinkBody
	if !decodeJSON(w, r, &body) {
		return
	}

	check := forms.AllowlistCheck{Email: body.Email}
	if errs := check.Validate(); len(errs) > 0 {
		writeValidationError(w, correctFieldsMessage, errs)
		return
	}

	next := sanitizeReturnPath(body.CallbackURL, h.defaultNext)
	err := h.authSvc.RequestSignInLink(r.Context(), check.Email, next)
	switch {
	case err == nil:
		writeOK(w, map[string]string{"message": "Check your email for a sign-in link."})
	case errors.Is(err, service.ErrNotAllowlisted):
		writeError(w, http.StatusForbidden, codeNotWhitelisted, notWhitelistedMessage)
	case errors.Is(err, service.ErrLinkDelivery):
		logger.Error("Failed to deliver sign-in link", "error", err)
		writeError(w, http.StatusBadGateway, codeEmailSendFailed, "We couldn’t send the sign-in email. Please try again.")
	default:
		logger.Error("Failed to issue sign-in link", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternalError, "Something went wrong. Please try again.")
	}
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawToken := q.Get("token")
	email := q.Get("email")
	next := sanitizeReturnPath(q.Get("next"), h.defaultNext)

	session, err := h.authSvc.CompleteSignIn(r.Context(), rawToken, email)
	switch {
	case err == nil:
		// fallthrough below
	case errors.Is(err, service.ErrInvalidLinkToken):
		http.Redirect(w, r, signInPath+"?error=Verification", http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrNotAllowlisted):
		http.Redirect(w, r, signInPath+"?error=AccessDenied", http.StatusSeeOther)
		return
	default:
		logger.Error("Sign-in completion failed", "error", err)
		http.Redirect(w, r, signInPath+"?error=Default", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeOK(w, map[string]string{"message": "Signed out."})
}
