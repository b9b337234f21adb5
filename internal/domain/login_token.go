package domain

import "time"

// LoginToken is a one-time magic-link sign-in token. Only the SHA-256
// digest of the raw token is stored; the raw value appears once, in the
// emailed link.
type LoginToken struct {
	TokenHash       string    `json:"-"`
	EmailNormalized string    `json:"email_normalized"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}
