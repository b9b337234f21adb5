package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/repository"
)

type allowlistRepository struct {
	db DBTX
}

func NewAllowlistRepository(db DBTX) repository.AllowlistRepository {
	return &allowlistRepository{db: db}
}

const allowlistColumns = `email, email_normalized, status, invitee_type, approved_at, revoked_at,
	       invited_by, notes, last_login_at, created_at`

func (r *allowlistRepository) GetByEmail(ctx context.Context, emailNormalized string) (*domain.AllowlistEntry, error) {
	entry := &domain.AllowlistEntry{}
	query := `SELECT ` + allowlistColumns + ` FROM allowlist_entries WHERE email_normalized = $1`
	err := r.db.QueryRowContext(ctx, query, emailNormalized).Scan(
		&entry.Email, &entry.EmailNormalized, &entry.Status, &entry.InviteeType,
		&entry.ApprovedAt, &entry.RevokedAt, &entry.InvitedBy, &entry.Notes,
		&entry.LastLoginAt, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Upsert relies on the unique index on email_normalized. The conflict
// branch overwrites the approval fields and clears revoked_at, so
// re-approving a revoked entry un-revokes it; created_at and last_login_at
// survive untouched.
func (r *allowlistRepository) Upsert(ctx context.Context, entry *domain.AllowlistEntry) error {
	query := `INSERT INTO allowlist_entries
	          (email, email_normalized, status, invitee_type, approved_at, revoked_at, invited_by, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, NULL, $6, $7, $8)
	          ON CONFLICT (email_normalized) DO UPDATE SET
	            email = EXCLUDED.email,
	            status = EXCLUDED.status,
	            invitee_type = EXCLUDED.invitee_type,
	            approved_at = EXCLUDED.approved_at,
	            revoked_at = NULL,
	            invited_by = EXCLUDED.invited_by,
	            notes = EXCLUDED.notes
	          RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		entry.Email, entry.EmailNormalized, entry.Status, entry.InviteeType,
		entry.ApprovedAt, entry.InvitedBy, entry.Notes, entry.CreatedAt).Scan(&entry.CreatedAt)
}

func (r *allowlistRepository) Update(ctx context.Context, entry *domain.AllowlistEntry) error {
	query := `UPDATE allowlist_entries
	          SET status = $1, approved_at = $2, revoked_at = $3, invited_by = $4, notes = $5
	          WHERE email_normalized = $6`
	result, err := r.db.ExecContext(ctx, query,
		entry.Status, entry.ApprovedAt, entry.RevokedAt, entry.InvitedBy, entry.Notes,
		entry.EmailNormalized)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *allowlistRepository) TouchLastLogin(ctx context.Context, emailNormalized string, at time.Time) error {
	query := `UPDATE allowlist_entries SET last_login_at = $1 WHERE email_normalized = $2`
	_, err := r.db.ExecContext(ctx, query, at, emailNormalized)
	return err
}

func (r *allowlistRepository) ListByStatus(ctx context.Context, status domain.AllowlistStatus, limit int) ([]domain.AllowlistEntry, error) {
	// Revoked entries sort by their revocation time, matching the admin view.
	order := `created_at DESC`
	if status == domain.AllowlistStatusRevoked {
		order = `revoked_at DESC`
	}
	query := `SELECT ` + allowlistColumns + ` FROM allowlist_entries
	          WHERE status = $1 ORDER BY ` + order + ` LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AllowlistEntry
	for rows.Next() {
		var entry domain.AllowlistEntry
		if err := rows.Scan(
			&entry.Email, &entry.EmailNormalized, &entry.Status, &entry.InviteeType,
			&entry.ApprovedAt, &entry.RevokedAt, &entry.InvitedBy, &entry.Notes,
			&entry.LastLoginAt, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
