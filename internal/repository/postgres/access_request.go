package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/repository"
)

type accessRequestRepository struct {
	db DBTX
}

func NewAccessRequestRepository(db DBTX) repository.AccessRequestRepository {
	return &accessRequestRepository{db: db}
}

const accessRequestColumns = `id, full_name, email, email_normalized, role, specialty, institution,
	       country_region, evaluation_goal, availability, ack_prototype_not_medical_advice,
	       ack_no_sharing, status, reviewed_at, reviewed_by, created_at`

func (r *accessRequestRepository) Create(ctx context.Context, req *domain.AccessRequest) error {
	query := `INSERT INTO access_requests (id, full_name, email, email_normalized, role, specialty,
	          institution, country_region, evaluation_goal, availability,
	          ack_prototype_not_medical_advice, ack_no_sharing, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.FullName, req.Email, req.EmailNormalized, req.Role, req.Specialty,
		req.Institution, req.CountryRegion, req.EvaluationGoal, req.Availability,
		req.AckPrototypeNotMedicalAdvice, req.AckNoSharing, req.Status, req.CreatedAt)
	return err
}

func (r *accessRequestRepository) GetByID(ctx context.Context, id string) (*domain.AccessRequest, error) {
	req := &domain.AccessRequest{}
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.FullName, &req.Email, &req.EmailNormalized, &req.Role, &req.Specialty,
		&req.Institution, &req.CountryRegion, &req.EvaluationGoal, &req.Availability,
		&req.AckPrototypeNotMedicalAdvice, &req.AckNoSharing, &req.Status,
		&req.ReviewedAt, &req.ReviewedBy, &req.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *accessRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.AccessRequestStatus, reviewedAt time.Time, reviewedBy *string) error {
	query := `UPDATE access_requests SET status = $1, reviewed_at = $2, reviewed_by = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, status, reviewedAt, reviewedBy, id)
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

func (r *accessRequestRepository) ListByStatus(ctx context.Context, status domain.AccessRequestStatus, limit int) ([]domain.AccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests
	          WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.AccessRequest
	for rows.Next() {
		var req domain.AccessRequest
		if err := rows.Scan(
			&req.ID, &req.FullName, &req.Email, &req.EmailNormalized, &req.Role, &req.Specialty,
			&req.Institution, &req.CountryRegion, &req.EvaluationGoal, &req.Availability,
			&req.AckPrototypeNotMedicalAdvice, &req.AckNoSharing, &req.Status,
			&req.ReviewedAt, &req.ReviewedBy, &req.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
