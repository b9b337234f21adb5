package postgres

import (
	"context"
	"database/sql"

	"auron-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so the same repository
// code serves direct calls and transactional closures.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.AccessRequestRepository
	repository.AllowlistRepository
	repository.LoginTokenRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		AccessRequestRepository: NewAccessRequestRepository(db),
		AllowlistRepository:     NewAllowlistRepository(db),
		LoginTokenRepository:    NewLoginTokenRepository(db),
	}
}

// txView binds the repositories to one open transaction.
type txView struct {
	requests  repository.AccessRequestRepository
	allowlist repository.AllowlistRepository
}

func (v *txView) AccessRequests() repository.AccessRequestRepository { return v.requests }
func (v *txView) Allowlist() repository.AllowlistRepository          { return v.allowlist }

// WithinTx runs fn inside a single transaction; any error rolls back every
// write fn made.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	view := &txView{
		requests:  NewAccessRequestRepository(tx),
		allowlist: NewAllowlistRepository(tx),
	}
	if err := fn(view); err != nil {
		return err
	}
	return tx.Commit()
}
