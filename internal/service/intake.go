package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/forms"
	"auron-backend/internal/repository"

	"github.com/google/uuid"
)

const submissionIDPrefix = "AURON"

type intakeService struct {
	reqRepo repository.AccessRequestRepository
}

func NewIntakeService(reqRepo repository.AccessRequestRepository) IntakeService {
	return &intakeService{reqRepo: reqRepo}
}

// SubmitAccessRequest persists an already-validated demo-access form as a
// pending request.
func (s *intakeService) SubmitAccessRequest(ctx context.Context, f *forms.DemoAccessRequest) (*domain.AccessRequest, error) {
	req := &domain.AccessRequest{
		ID:                           uuid.NewString(),
		FullName:                     f.FullName,
		Email:                        f.Email,
		EmailNormalized:              domain.NormalizeEmail(f.Email),
		Role:                         f.Role,
		Specialty:                    optional(f.Specialty),
		Institution:                  f.Institution,
		CountryRegion:                f.CountryRegion,
		EvaluationGoal:               f.EvaluationGoal,
		Availability:                 optional(f.Availability),
		AckPrototypeNotMedicalAdvice: f.AckPrototypeNotMedicalAdvice,
		AckNoSharing:                 f.AckNoSharing,
		Status:                       domain.AccessRequestStatusPending,
		CreatedAt:                    time.Now(),
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create access request: %w", err)
	}
	return req, nil
}

// NewSubmissionID returns a tracking id of the form AURON-###### with six
// random digits.
func (s *intakeService) NewSubmissionID() string {
	return fmt.Sprintf("%s-%06d", submissionIDPrefix, 100000+rand.IntN(900000))
}
