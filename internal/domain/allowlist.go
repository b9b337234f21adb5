package domain

import (
	"strings"
	"time"
)

type AllowlistStatus string

const (
	AllowlistStatusApproved AllowlistStatus = "approved"
	AllowlistStatusRevoked  AllowlistStatus = "revoked"
)

type InviteeType string

const (
	InviteeTypePhysician InviteeType = "physician"
	InviteeTypePartner   InviteeType = "partner"
	InviteeTypeInvestor  InviteeType = "investor"
	InviteeTypeOther     InviteeType = "other"
)

// ParseInviteeType maps an untrusted form value onto a known invitee type,
// falling back to "other" for anything absent or unrecognized.
func ParseInviteeType(s string) InviteeType {
	switch InviteeType(s) {
	case InviteeTypePhysician, InviteeTypePartner, InviteeTypeInvestor, InviteeTypeOther:
		return InviteeType(s)
	}
	return InviteeTypeOther
}

// AllowlistEntry asserts whether a normalized email may currently
// authenticate. Exactly one entry exists per normalized email; revocation
// flips status in place, it never deletes the row. Only the timestamp
// matching the current status is authoritative; the other is stale history.
type AllowlistEntry struct {
	Email           string          `json:"email"`
	EmailNormalized string          `json:"email_normalized"`
	Status          AllowlistStatus `json:"status"`
	InviteeType     InviteeType     `json:"invitee_type"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RevokedAt       *time.Time      `json:"revoked_at,omitempty"`
	InvitedBy       *string         `json:"invited_by,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	LastLoginAt     *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NormalizeEmail lowercases and trims an email address. The normalized form
// is the sole equality key for allowlist and access-request correlation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
