package repository

import (
	"context"
	"time"

	"auron-backend/internal/domain"
)

type AccessRequestRepository interface {
	Create(ctx context.Context, req *domain.AccessRequest) error
	GetByID(ctx context.Context, id string) (*domain.AccessRequest, error)
	// UpdateStatus records the one-time disposition of a request.
	UpdateStatus(ctx context.Context, id string, status domain.AccessRequestStatus, reviewedAt time.Time, reviewedBy *string) error
	ListByStatus(ctx context.Context, status domain.AccessRequestStatus, limit int) ([]domain.AccessRequest, error)
}

type AllowlistRepository interface {
	GetByEmail(ctx context.Context, emailNormalized string) (*domain.AllowlistEntry, error)
	// Upsert inserts the entry or, when one exists for the normalized email,
	// overwrites email, status, invitee_type, approved_at, invited_by and
	// notes and clears revoked_at. created_at is never touched on update.
	Upsert(ctx context.Context, entry *domain.AllowlistEntry) error
	Update(ctx context.Context, entry *domain.AllowlistEntry) error
	// TouchLastLogin stamps last_login_at. Callers may discard the error;
	// the update is best effort by contract.
	TouchLastLogin(ctx context.Context, emailNormalized string, at time.Time) error
	ListByStatus(ctx context.Context, status domain.AllowlistStatus, limit int) ([]domain.AllowlistEntry, error)
}

type LoginTokenRepository interface {
	Create(ctx context.Context, token *domain.LoginToken) error
	// Consume deletes the token and returns it in a single round trip, so a
	// token can be redeemed at most once.
	Consume(ctx context.Context, tokenHash string) (*domain.LoginToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Tx is the store view handed to a transactional closure.
type Tx interface {
	AccessRequests() AccessRequestRepository
	Allowlist() AllowlistRepository
}

// Transactor runs a closure against a single database transaction. The
// closure's writes commit together or not at all.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
