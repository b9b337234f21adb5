package http

import (
	"net/http"
	"strings"

	"auron-backend/internal/forms"
	"auron-backend/internal/logger"
	"auron-backend/internal/service"
)

const correctFieldsMessage = "Please correct the highlighted fields."

// IntakeHandler serves the public submission endpoints.
type IntakeHandler struct {
	intakeSvc service.IntakeService
	authSvc   service.AuthService
}

func NewIntakeHandler(intakeSvc service.IntakeService, authSvc service.AuthService) *IntakeHandler {
	return &IntakeHandler{intakeSvc: intakeSvc, authSvc: authSvc}
}

func (h *IntakeHandler) DemoAccess(w http.ResponseWriter, r *http.Request) {
	var form forms.DemoAccessRequest
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, correctFieldsMessage, errs)
		return
	}

	if _, err := h.intakeSvc.SubmitAccessRequest(r.Context(), &form); err != nil {
		logger.Error("Failed to store access request", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternalError, "Something went wrong. Please try again or contact us.")
		return
	}

	writeOK(w, map[string]string{"message": forms.DemoAccessSuccessMessage})
}

func (h *IntakeHandler) AllowlistCheck(w http.ResponseWriter, r *http.Request) {
	var form forms.AllowlistCheck
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, correctFieldsMessage, errs)
		return
	}

	permitted, _, err := h.authSvc.IsAllowlisted(r.Context(), form.Email)
	if err != nil {
		logger.Error("Allowlist check failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternalError, "Something went wrong. Please try again.")
		return
	}
	if !permitted {
		writeError(w, http.StatusForbidden, codeNotWhitelisted, notWhitelistedMessage)
		return
	}

	writeOK(w, map[string]string{"message": "Approved."})
}

func (h *IntakeHandler) ContactPartnerships(w http.ResponseWriter, r *http.Request) {
	var form forms.ContactPartnerships
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, correctFieldsMessage, errs)
		return
	}
	writeOK(w, map[string]string{"message": forms.ContactSuccessMessage})
}

func (h *IntakeHandler) ContactSupport(w http.ResponseWriter, r *http.Request) {
	var form forms.ContactSupport
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, correctFieldsMessage, errs)
		return
	}
	writeOK(w, map[string]string{"message": forms.ContactSuccessMessage})
}

func (h *IntakeHandler) ContributeEligibility(w http.ResponseWriter, r *http.Request) {
	var form forms.ContributeEligibility
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, "Please complete all eligibility checks before continuing.", errs)
		return
	}
	writeOK(w, map[string]string{"message": forms.ContributeEligibilitySuccessMessage})
}

func (h *IntakeHandler) ContributeConsent(w http.ResponseWriter, r *http.Request) {
	var form forms.ContributeConsent
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, "Please accept all required terms to continue.", errs)
		return
	}
	writeOK(w, map[string]string{"message": forms.ContributeConsentSuccessMessage})
}

func (h *IntakeHandler) ContributeUpload(w http.ResponseWriter, r *http.Request) {
	var form forms.ContributeUpload
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, "Please confirm that you finished uploading.", errs)
		return
	}
	writeOK(w, map[string]string{"message": forms.ContributeUploadSuccessMessage})
}

func (h *IntakeHandler) ContributeSubmit(w http.ResponseWriter, r *http.Request) {
	var form forms.ContributeSubmission
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, correctFieldsMessage, errs)
		return
	}

	submissionID := h.intakeSvc.NewSubmissionID()
	writeOK(w, map[string]string{
		"submissionId": submissionID,
		"message":      strings.Replace(forms.ContributeSubmissionSuccessMessage, "{SUBMISSION_ID}", submissionID, 1),
	})
}

func (h *IntakeHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var form forms.AppFeedback
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeValidationError(w, correctFieldsMessage, errs)
		return
	}
	writeOK(w, map[string]string{"message": forms.AppFeedbackSuccessMessage})
}
