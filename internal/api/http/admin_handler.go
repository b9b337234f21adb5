package http

import (
	"errors"
	"net/http"
	"time"

	"auron-backend/internal/forms"
	"auron-backend/internal/logger"
	"auron-backend/internal/security"
	"auron-backend/internal/service"
)

// AdminHandler serves the admin session and the five lifecycle mutations.
// All mutation routes are wrapped with RequireAdmin at registration, so the
// guard runs before any store access.
type AdminHandler struct {
	lifecycleSvc  service.LifecycleService
	guard         *security.AdminGuard
	tokens        security.TokenManager
	sessionTTL    time.Duration
	secureCookies bool
}

func NewAdminHandler(
	lifecycleSvc service.LifecycleService,
	guard *security.AdminGuard,
	tokens security.TokenManager,
	sessionTTL time.Duration,
	secureCookies bool,
) *AdminHandler {
	return &AdminHandler{
		lifecycleSvc:  lifecycleSvc,
		guard:         guard,
		tokens:        tokens,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

func (h *AdminHandler) setAdminCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "Invalid form body.")
		return
	}

	if h.guard.Authorize(r.PostFormValue("admin_key")) != security.Authorized {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "Invalid admin key.")
		return
	}

	session, err := h.tokens.IssueAdminSession(h.sessionTTL)
	if err != nil {
		logger.Error("Failed to issue admin session", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternalError, "Something went wrong. Please try again.")
		return
	}
	h.setAdminCookie(w, session, int(h.sessionTTL.Seconds()))
	writeOKRefresh(w, map[string]string{"message": "Signed in."})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setAdminCookie(w, "", -1)
	writeOKRefresh(w, map[string]string{"message": "Signed out."})
}

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.lifecycleSvc.Overview(r.Context())
	if err != nil {
		logger.Error("Failed to load admin overview", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternalError, "Something went wrong. Please try again.")
		return
	}
	writeOK(w, overview)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "Invalid form body.")
		return
	}

	result, err := h.lifecycleSvc.ApproveAccessRequest(r.Context(), service.ApproveAccessRequestParams{
		RequestID:   r.PostFormValue("request_id"),
		InviteeType: r.PostFormValue("invitee_type"),
		ReviewedBy:  r.PostFormValue("reviewed_by"),
		Notes:       r.PostFormValue("notes"),
		Notify:      r.PostFormValue("notify") == "on",
	})
	if err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	writeOKRefresh(w, result)
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "Invalid form body.")
		return
	}

	if err := h.lifecycleSvc.RejectAccessRequest(r.Context(), r.PostFormValue("request_id"), r.PostFormValue("reviewed_by")); err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	writeOKRefresh(w, map[string]string{"message": "Request rejected."})
}

func (h *AdminHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "Invalid form body.")
		return
	}

	result, err := h.lifecycleSvc.DirectInvite(r.Context(), service.DirectInviteParams{
		Email:       r.PostFormValue("email"),
		InviteeType: r.PostFormValue("invitee_type"),
		InvitedBy:   r.PostFormValue("invited_by"),
		Notes:       r.PostFormValue("notes"),
		Notify:      r.PostFormValue("notify") == "on",
	})
	if err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	writeOKRefresh(w, result)
}

func (h *AdminHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "Invalid form body.")
		return
	}

	result, err := h.lifecycleSvc.RevokeAllowlist(r.Context(), service.RevokeParams{
		Email:     r.PostFormValue("email"),
		Reason:    r.PostFormValue("reason"),
		RevokedBy: r.PostFormValue("revoked_by"),
		Notify:    r.PostFormValue("notify") == "on",
	})
	if err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	writeOKRefresh(w, result)
}

func (h *AdminHandler) Reinstate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "Invalid form body.")
		return
	}

	entry, err := h.lifecycleSvc.ReinstateAllowlist(r.Context(), r.PostFormValue("email"), r.PostFormValue("invited_by"))
	if err != nil {
		h.writeLifecycleError(w, err)
		return
	}
	writeOKRefresh(w, map[string]any{"entry": entry})
}

func (h *AdminHandler) writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingRequestID):
		writeValidationError(w, "Missing request id.", forms.FieldErrors{"request_id": "Missing request id."})
	case errors.Is(err, service.ErrMissingEmail):
		writeValidationError(w, "Email is required.", forms.FieldErrors{"email": "Email is required."})
	case errors.Is(err, service.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "Request not found.")
	case errors.Is(err, service.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "Allowlist entry not found.")
	default:
		logger.Error("Admin lifecycle operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternalError, "Something went wrong. Please try again.")
	}
}
