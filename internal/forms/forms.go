// Package forms defines the public submission payloads and their
// validation rules. Every Validate method trims string fields in place,
// treats emptied optional fields as absent, and returns one message per
// failing field, first error wins.
package forms

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

type FieldErrors map[string]string

func (e FieldErrors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

const invalidEmailMsg = "Enter a valid email address."

func validEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// Reject display-name forms; the parsed address must be the input.
	return addr.Address == s
}

func oneOf(value string, options ...string) bool {
	for _, opt := range options {
		if value == opt {
			return true
		}
	}
	return false
}

var monthYearPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(19|20)\d{2}$`)

// requiredText enforces a trimmed required string with min/max bounds.
// Bounds count characters, not bytes.
func requiredText(errs FieldErrors, field, value, requiredMsg string, min int, minMsg string, max int, maxMsg string) {
	if value == "" {
		errs.add(field, requiredMsg)
		return
	}
	if utf8.RuneCountInString(value) < min {
		errs.add(field, minMsg)
		return
	}
	if utf8.RuneCountInString(value) > max {
		errs.add(field, maxMsg)
	}
}

func optionalMax(errs FieldErrors, field, value string, max int, maxMsg string) {
	if value != "" && utf8.RuneCountInString(value) > max {
		errs.add(field, maxMsg)
	}
}

func requiredEmail(errs FieldErrors, field, value, requiredMsg string) {
	if value == "" {
		errs.add(field, requiredMsg)
		return
	}
	if !validEmail(value) {
		errs.add(field, invalidEmailMsg)
	}
}

// DemoAccessRequest is the demo-access application form.
type DemoAccessRequest struct {
	FullName                     string `json:"full_name"`
	Email                        string `json:"email"`
	Role                         string `json:"role"`
	Specialty                    string `json:"specialty"`
	Institution                  string `json:"institution"`
	CountryRegion                string `json:"country_region"`
	EvaluationGoal               string `json:"evaluation_goal"`
	Availability                 string `json:"availability"`
	AckPrototypeNotMedicalAdvice bool   `json:"ack_prototype_not_medical_advice"`
	AckNoSharing                 bool   `json:"ack_no_sharing"`
}

const (
	DemoAccessSuccessMessage = "Thanks—your request was received. If approved, you’ll get an email when your address is whitelisted and you can sign in."
)

func (f *DemoAccessRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Specialty = strings.TrimSpace(f.Specialty)
	f.Institution = strings.TrimSpace(f.Institution)
	f.CountryRegion = strings.TrimSpace(f.CountryRegion)
	f.EvaluationGoal = strings.TrimSpace(f.EvaluationGoal)
	f.Availability = strings.TrimSpace(f.Availability)

	requiredText(errs, "full_name", f.FullName, "Full name is required.",
		2, "Full name must be at least 2 characters.",
		80, "Full name must be 80 characters or fewer.")
	requiredEmail(errs, "email", f.Email, "Email is required.")
	if !oneOf(f.Role, "Physician", "Radiologist", "Researcher", "Healthcare Executive", "Engineer", "Other") {
		errs.add("role", "Select a role.")
	}
	optionalMax(errs, "specialty", f.Specialty, 80, "Specialty must be 80 characters or fewer.")
	requiredText(errs, "institution", f.Institution, "Institution or organization is required.",
		2, "Institution must be at least 2 characters.",
		120, "Institution must be 120 characters or fewer.")
	requiredText(errs, "country_region", f.CountryRegion, "Country or region is required.",
		2, "Country or region must be at least 2 characters.",
		80, "Country or region must be 80 characters or fewer.")
	requiredText(errs, "evaluation_goal", f.EvaluationGoal, "Tell us what you want to evaluate.",
		10, "Please provide at least 10 characters.",
		800, "Please keep this to 800 characters or fewer.")
	if f.Availability != "" && !oneOf(f.Availability, "No preference", "Weekdays", "Weekends", "Evenings", "Mornings") {
		errs.add("availability", "Select a valid availability.")
	}
	if !f.AckPrototypeNotMedicalAdvice {
		errs.add("ack_prototype_not_medical_advice", "You must acknowledge the prototype disclaimer.")
	}
	if !f.AckNoSharing {
		errs.add("ack_no_sharing", "You must agree not to share prototype materials.")
	}
	return errs
}

// AllowlistCheck is the pre-sign-in allowlist probe.
type AllowlistCheck struct {
	Email string `json:"email"`
}

func (f *AllowlistCheck) Validate() FieldErrors {
	errs := FieldErrors{}
	f.Email = strings.TrimSpace(f.Email)
	requiredEmail(errs, "email", f.Email, "Email is required.")
	return errs
}

// ContactPartnerships is the partnerships contact form.
type ContactPartnerships struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	RoleTitle    string `json:"role_title"`
	InterestArea string `json:"interest_area"`
	Message      string `json:"message"`
}

const ContactSuccessMessage = "Thanks—your message was sent. We’ll respond as soon as we can."

func (f *ContactPartnerships) Validate() FieldErrors {
	errs := FieldErrors{}
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Organization = strings.TrimSpace(f.Organization)
	f.RoleTitle = strings.TrimSpace(f.RoleTitle)
	f.Message = strings.TrimSpace(f.Message)

	requiredText(errs, "full_name", f.FullName, "Name is required.",
		2, "Name must be at least 2 characters.",
		80, "Name must be 80 characters or fewer.")
	requiredEmail(errs, "email", f.Email, "Email is required.")
	requiredText(errs, "organization", f.Organization, "Organization is required.",
		2, "Organization must be at least 2 characters.",
		120, "Organization must be 120 characters or fewer.")
	requiredText(errs, "role_title", f.RoleTitle, "Role/title is required.",
		2, "Role/title must be at least 2 characters.",
		80, "Role/title must be 80 characters or fewer.")
	if !oneOf(f.InterestArea, "Clinical validation", "Data partnership", "Technical integration", "Commercial collaboration", "Other") {
		errs.add("interest_area", "Select an interest area.")
	}
	requiredText(errs, "message", f.Message, "Message is required.",
		10, "Message must be at least 10 characters.",
		2000, "Message must be 2000 characters or fewer.")
	return errs
}

// ContactSupport is the support contact form.
type ContactSupport struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Topic    string `json:"topic"`
	Message  string `json:"message"`
}

func (f *ContactSupport) Validate() FieldErrors {
	errs := FieldErrors{}
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)

	requiredText(errs, "full_name", f.FullName, "Name is required.",
		2, "Name must be at least 2 characters.",
		80, "Name must be 80 characters or fewer.")
	requiredEmail(errs, "email", f.Email, "Email is required.")
	if !oneOf(f.Topic, "Demo access", "Scan submission", "Other") {
		errs.add("topic", "Select a topic.")
	}
	requiredText(errs, "message", f.Message, "Message is required.",
		10, "Message must be at least 10 characters.",
		2000, "Message must be 2000 characters or fewer.")
	return errs
}

// ContributeEligibility is step one of the data-contribution wizard.
type ContributeEligibility struct {
	EligibleRightToShare    bool `json:"eligible_right_to_share"`
	EligibleRawDICOM        bool `json:"eligible_raw_dicom"`
	EligibleZippedFolder    bool `json:"eligible_zipped_folder"`
	EligibleArterialAnatomy bool `json:"eligible_arterial_anatomy"`
}

const ContributeEligibilitySuccessMessage = "Eligibility confirmed. Continue to consent and terms."

func (f *ContributeEligibility) Validate() FieldErrors {
	errs := FieldErrors{}
	if !f.EligibleRightToShare {
		errs.add("eligible_right_to_share", "You must confirm you have the right to share the scans.")
	}
	if !f.EligibleRawDICOM {
		errs.add("eligible_raw_dicom", "You must confirm the files are raw DICOM.")
	}
	if !f.EligibleZippedFolder {
		errs.add("eligible_zipped_folder", "You must confirm you can upload a zipped folder.")
	}
	if !f.EligibleArterialAnatomy {
		errs.add("eligible_arterial_anatomy", "You must confirm the scan includes arterial anatomy.")
	}
	return errs
}

// ContributeConsent is step two of the data-contribution wizard.
type ContributeConsent struct {
	ConsentSubmitForReviewAndResearch bool `json:"consent_submit_for_review_and_research"`
	AckNotMedicalCare                 bool `json:"ack_not_medical_care"`
	AckIdentifiableDuringIntake       bool `json:"ack_identifiable_during_intake"`
}

const ContributeConsentSuccessMessage = "Consent recorded. Continue to upload."

func (f *ContributeConsent) Validate() FieldErrors {
	errs := FieldErrors{}
	if !f.ConsentSubmitForReviewAndResearch {
		errs.add("consent_submit_for_review_and_research", "You must consent to submit your imaging for review.")
	}
	if !f.AckNotMedicalCare {
		errs.add("ack_not_medical_care", "You must acknowledge this is not medical care.")
	}
	if !f.AckIdentifiableDuringIntake {
		errs.add("ack_identifiable_during_intake", "You must acknowledge identifiable information may exist during intake.")
	}
	return errs
}

// ContributeUpload is step three of the data-contribution wizard.
type ContributeUpload struct {
	UploadCompleted bool `json:"upload_completed"`
}

const ContributeUploadSuccessMessage = "Upload confirmed. Continue to submission details."

func (f *ContributeUpload) Validate() FieldErrors {
	errs := FieldErrors{}
	if !f.UploadCompleted {
		errs.add("upload_completed", "Confirm upload completion to continue.")
	}
	return errs
}

// ContributeSubmission is the final step of the data-contribution wizard.
type ContributeSubmission struct {
	ContactEmail         string `json:"contact_email"`
	SubmitterName        string `json:"submitter_name"`
	ScanType             string `json:"scan_type"`
	ScanRegion           string `json:"scan_region"`
	ScanDateMonthYear    string `json:"scan_date_month_year"`
	SourceHospitalSystem string `json:"source_hospital_system"`
	Notes                string `json:"notes"`
	PayoutEmail          string `json:"payout_email"`
	PayoutCountry        string `json:"payout_country"`
	ConfirmMatchUpload   bool   `json:"confirm_match_upload"`
}

const ContributeSubmissionSuccessMessage = "Thank you—your submission is received. Your submission ID is {SUBMISSION_ID}. We’ll email you after review."

func (f *ContributeSubmission) Validate() FieldErrors {
	errs := FieldErrors{}
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
	f.SubmitterName = strings.TrimSpace(f.SubmitterName)
	f.ScanDateMonthYear = strings.TrimSpace(f.ScanDateMonthYear)
	f.SourceHospitalSystem = strings.TrimSpace(f.SourceHospitalSystem)
	f.Notes = strings.TrimSpace(f.Notes)
	f.PayoutEmail = strings.TrimSpace(f.PayoutEmail)
	f.PayoutCountry = strings.TrimSpace(f.PayoutCountry)

	requiredEmail(errs, "contact_email", f.ContactEmail, "Email is required so we can contact you.")
	optionalMax(errs, "submitter_name", f.SubmitterName, 80, "Name must be 80 characters or fewer.")
	if !oneOf(f.ScanType, "CTA", "CT", "Other") {
		errs.add("scan_type", "Select a scan type.")
	}
	if !oneOf(f.ScanRegion, "Head & neck (arterial)", "Coronary (arterial)", "Other arterial region") {
		errs.add("scan_region", "Select a scan region.")
	}
	if f.ScanDateMonthYear != "" && !monthYearPattern.MatchString(f.ScanDateMonthYear) {
		errs.add("scan_date_month_year", "Enter date as MM/YYYY.")
	}
	optionalMax(errs, "source_hospital_system", f.SourceHospitalSystem, 120, "This must be 120 characters or fewer.")
	optionalMax(errs, "notes", f.Notes, 800, "Notes must be 800 characters or fewer.")
	requiredEmail(errs, "payout_email", f.PayoutEmail, "Payout email is required.")
	requiredText(errs, "payout_country", f.PayoutCountry, "Country is required for payout fulfillment.",
		2, "Country must be at least 2 characters.",
		80, "Country must be 80 characters or fewer.")
	if !f.ConfirmMatchUpload {
		errs.add("confirm_match_upload", "You must confirm your upload details.")
	}
	return errs
}

// AppFeedback is the in-product feedback form from gated prototype pages.
type AppFeedback struct {
	CaseID             string `json:"case_id"`
	WorkflowRating     string `json:"workflow_rating"`
	MostUseful         string `json:"most_useful"`
	ConfusingOrMissing string `json:"confusing_or_missing"`
	WouldUseInWorkflow string `json:"would_use_in_workflow"`
	RequestFollowUp    bool   `json:"request_follow_up"`
	FollowUpEmail      string `json:"follow_up_email"`
}

const AppFeedbackSuccessMessage = "Thanks—your feedback was sent."

func (f *AppFeedback) Validate() FieldErrors {
	errs := FieldErrors{}
	f.CaseID = strings.TrimSpace(f.CaseID)
	f.MostUseful = strings.TrimSpace(f.MostUseful)
	f.ConfusingOrMissing = strings.TrimSpace(f.ConfusingOrMissing)
	f.FollowUpEmail = strings.TrimSpace(f.FollowUpEmail)

	optionalMax(errs, "case_id", f.CaseID, 40, "Case ID must be 40 characters or fewer.")
	if !oneOf(f.WorkflowRating, "1", "2", "3", "4", "5") {
		errs.add("workflow_rating", "Select a rating.")
	}
	requiredText(errs, "most_useful", f.MostUseful, "Please tell us what felt most useful.",
		10, "Please provide at least 10 characters.",
		1200, "Please keep this to 1200 characters or fewer.")
	requiredText(errs, "confusing_or_missing", f.ConfusingOrMissing, "Please tell us what felt confusing or missing.",
		10, "Please provide at least 10 characters.",
		1200, "Please keep this to 1200 characters or fewer.")
	if !oneOf(f.WouldUseInWorkflow, "Yes", "No", "Not sure") {
		errs.add("would_use_in_workflow", "Select an option.")
	}
	if f.FollowUpEmail != "" && !validEmail(f.FollowUpEmail) {
		errs.add("follow_up_email", invalidEmailMsg)
	}
	if f.RequestFollowUp && f.FollowUpEmail == "" {
		errs.add("follow_up_email", "Email is required if you request a follow-up.")
	}
	return errs
}
