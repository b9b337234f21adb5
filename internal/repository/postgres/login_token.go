package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/repository"
)

type loginTokenRepository struct {
	db DBTX
}

func NewLoginTokenRepository(db DBTX) repository.LoginTokenRepository {
	return &loginTokenRepository{db: db}
}

func (r *loginTokenRepository) Create(ctx context.Context, token *domain.LoginToken) error {
	query := `INSERT INTO login_tokens (token_hash, email_normalized, expires_at, created_at)
	          VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, token.TokenHash, token.EmailNormalized, token.ExpiresAt, token.CreatedAt)
	return err
}

// Consume deletes and returns the token in one statement, so two concurrent
// redemptions of the same link cannot both succeed.
func (r *loginTokenRepository) Consume(ctx context.Context, tokenHash string) (*domain.LoginToken, error) {
	token := &domain.LoginToken{}
	query := `DELETE FROM login_tokens WHERE token_hash = $1
	          RETURNING token_hash, email_normalized, expires_at, created_at`
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.TokenHash, &token.EmailNormalized, &token.ExpiresAt, &token.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (r *loginTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM login_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
