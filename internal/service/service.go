package service

import (
	"context"
	"errors"

	"auron-backend/internal/domain"
	"auron-backend/internal/forms"
)

var (
	ErrMissingRequestID = errors.New("missing request id")
	ErrMissingEmail     = errors.New("email is required")
	ErrRequestNotFound  = errors.New("request not found")
	ErrEntryNotFound    = errors.New("allowlist entry not found")
	ErrNotAllowlisted   = errors.New("email is not allowlisted")
	ErrInvalidLinkToken = errors.New("sign-in link is invalid or expired")
	ErrLinkDelivery     = errors.New("failed to send sign-in link")
)

// NotifyOutcome reports the post-commit email attempt. A failed send never
// fails the operation that triggered it; it surfaces here instead.
type NotifyOutcome struct {
	EmailSent  bool   `json:"email_sent"`
	EmailError string `json:"email_error,omitempty"`
}

type ApproveAccessRequestParams struct {
	RequestID   string
	InviteeType string
	ReviewedBy  string
	Notes       string
	Notify      bool
}

type ApprovalResult struct {
	Request *domain.AccessRequest  `json:"request"`
	Entry   *domain.AllowlistEntry `json:"entry"`
	NotifyOutcome
}

type DirectInviteParams struct {
	Email       string
	InviteeType string
	InvitedBy   string
	Notes       string
	Notify      bool
}

type InviteResult struct {
	Entry *domain.AllowlistEntry `json:"entry"`
	NotifyOutcome
}

type RevokeParams struct {
	Email     string
	Reason    string
	RevokedBy string
	Notify    bool
}

type RevokeResult struct {
	Entry *domain.AllowlistEntry `json:"entry"`
	NotifyOutcome
}

// AdminOverview backs the admin dashboard in one payload.
type AdminOverview struct {
	Pending  []domain.AccessRequest  `json:"pending"`
	Approved []domain.AllowlistEntry `json:"approved"`
	Revoked  []domain.AllowlistEntry `json:"revoked"`
}

// LifecycleService orchestrates the admin allowlist transitions. Callers
// must hold a valid admin session; the HTTP layer rejects anything else
// before these methods run.
type LifecycleService interface {
	ApproveAccessRequest(ctx context.Context, p ApproveAccessRequestParams) (*ApprovalResult, error)
	RejectAccessRequest(ctx context.Context, requestID, reviewedBy string) error
	DirectInvite(ctx context.Context, p DirectInviteParams) (*InviteResult, error)
	RevokeAllowlist(ctx context.Context, p RevokeParams) (*RevokeResult, error)
	ReinstateAllowlist(ctx context.Context, email, invitedBy string) (*domain.AllowlistEntry, error)
	Overview(ctx context.Context) (*AdminOverview, error)
}

type AuthService interface {
	// IsAllowlisted is the access gate: true only for an existing entry with
	// status approved. Pure read, no authorization required.
	IsAllowlisted(ctx context.Context, email string) (bool, *domain.AllowlistEntry, error)
	RequestSignInLink(ctx context.Context, email, next string) error
	// CompleteSignIn redeems a magic-link token and returns a signed session
	// token. The allowlist is re-checked here, at the moment of sign-in.
	CompleteSignIn(ctx context.Context, rawToken, email string) (string, error)
}

type IntakeService interface {
	SubmitAccessRequest(ctx context.Context, f *forms.DemoAccessRequest) (*domain.AccessRequest, error)
	// NewSubmissionID mints a human-readable contribution tracking id.
	NewSubmissionID() string
}

type EmailService interface {
	SendApprovalNotification(ctx context.Context, to, startURL string) error
	SendInviteNotification(ctx context.Context, to, startURL string) error
	SendAccessUpdatedNotification(ctx context.Context, to string) error
	SendSignInLink(ctx context.Context, to, linkURL string) error
	SendPendingRequestDigest(ctx context.Context, to string, pending []domain.AccessRequest) error
}

// optional converts a trimmed form value into a nullable column value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
