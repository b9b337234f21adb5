package http

import (
	"net/http"

	"auron-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter registers every API route. Admin mutation routes go through
// RequireAdmin; the admin login itself does not, since it is how the
// session gets established in the first place.
func NewRouter(
	intake *IntakeHandler,
	auth *AuthHandler,
	admin *AdminHandler,
	tokens security.TokenManager,
) *mux.Router {
	router := mux.NewRouter()

	// Public intake endpoints
	router.HandleFunc("/api/demo-access", intake.DemoAccess).Methods("POST")
	router.HandleFunc("/api/allowlist/check", intake.AllowlistCheck).Methods("POST")
	router.HandleFunc("/api/contact/partnerships", intake.ContactPartnerships).Methods("POST")
	router.HandleFunc("/api/contact/support", intake.ContactSupport).Methods("POST")
	router.HandleFunc("/api/contribute/eligibility", intake.ContributeEligibility).Methods("POST")
	router.HandleFunc("/api/contribute/consent", intake.ContributeConsent).Methods("POST")
	router.HandleFunc("/api/contribute/upload", intake.ContributeUpload).Methods("POST")
	router.HandleFunc("/api/contribute/submit", intake.ContributeSubmit).Methods("POST")
	router.HandleFunc("/api/feedback", intake.Feedback).Methods("POST")

	// Magic-link sign-in
	router.HandleFunc("/api/auth/request-link", auth.RequestLink).Methods("POST")
	router.HandleFunc("/api/auth/callback", auth.Callback).Methods("GET")
	router.HandleFunc("/api/auth/signout", auth.SignOut).Methods("POST")

	// Admin session
	router.HandleFunc("/api/admin/login", admin.Login).Methods("POST")
	router.HandleFunc("/api/admin/logout", RequireAdmin(tokens, admin.Logout)).Methods("POST")

	// Admin dashboard and allowlist lifecycle
	router.HandleFunc("/api/admin/overview", RequireAdmin(tokens, admin.Overview)).Methods("GET")
	router.HandleFunc("/api/admin/requests/approve", RequireAdmin(tokens, admin.Approve)).Methods("POST")
	router.HandleFunc("/api/admin/requests/reject", RequireAdmin(tokens, admin.Reject)).Methods("POST")
	router.HandleFunc("/api/admin/allowlist/invite", RequireAdmin(tokens, admin.Invite)).Methods("POST")
	router.HandleFunc("/api/admin/allowlist/revoke", RequireAdmin(tokens, admin.Revoke)).Methods("POST")
	router.HandleFunc("/api/admin/allowlist/reinstate", RequireAdmin(tokens, admin.Reinstate)).Methods("POST")

	// Health check
	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, map[string]string{"status": "ok"})
	}).Methods("GET")

	return router
}
