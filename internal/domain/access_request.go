package domain

import "time"

type AccessRequestStatus string

const (
	AccessRequestStatusPending  AccessRequestStatus = "pending"
	AccessRequestStatusApproved AccessRequestStatus = "approved"
	AccessRequestStatusRejected AccessRequestStatus = "rejected"
)

// AccessRequest is a prospective user's application for demo access.
// Applicant-supplied fields are immutable after creation; only status,
// reviewed_at and reviewed_by change, exactly once, on admin disposition.
type AccessRequest struct {
	ID                           string              `json:"id"`
	FullName                     string              `json:"full_name"`
	Email                        string              `json:"email"`
	EmailNormalized              string              `json:"email_normalized"`
	Role                         string              `json:"role"`
	Specialty                    *string             `json:"specialty,omitempty"`
	Institution                  string              `json:"institution"`
	CountryRegion                string              `json:"country_region"`
	EvaluationGoal               string              `json:"evaluation_goal"`
	Availability                 *string             `json:"availability,omitempty"`
	AckPrototypeNotMedicalAdvice bool                `json:"ack_prototype_not_medical_advice"`
	AckNoSharing                 bool                `json:"ack_no_sharing"`
	Status                       AccessRequestStatus `json:"status"`
	ReviewedAt                   *time.Time          `json:"reviewed_at,omitempty"`
	ReviewedBy                   *string             `json:"reviewed_by,omitempty"`
	CreatedAt                    time.Time           `json:"created_at"`
}
