package http

import (
	"encoding/json"
	"net/http"

	"auron-backend/internal/forms"
)

// Cookie names are fixed; both cookies are http-only, same-site lax,
// site-wide, secure in production.
const (
	SessionCookieName = "auron_session"
	AdminCookieName   = "auron_admin"
)

const (
	codeValidationError = "VALIDATION_ERROR"
	codeNotWhitelisted  = "NOT_WHITELISTED"
	codeNotFound        = "NOT_FOUND"
	codeUnauthorized    = "UNAUTHORIZED"
	codeEmailSendFailed = "EMAIL_SEND_FAILED"
	codeInternalError   = "INTERNAL_ERROR"
)

const notWhitelistedMessage = "This email isn’t approved yet. Request access or contact the team."

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": data})
}

// writeOKRefresh is writeOK plus the signal that cached admin views must be
// reloaded.
func writeOKRefresh(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": data, "refresh": true})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "code": code, "message": message})
}

func writeValidationError(w http.ResponseWriter, message string, fieldErrors forms.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"ok":          false,
		"code":        codeValidationError,
		"message":     message,
		"fieldErrors": fieldErrors,
	})
}

// decodeJSON parses the request body; a malformed body yields the uniform
// validation envelope with a _global field error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeValidationError(w, "Invalid JSON body.", forms.FieldErrors{"_global": "Invalid JSON body."})
		return false
	}
	return true
}
