package service_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/forms"
	"auron-backend/internal/security"
	"auron-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://auronintelligence.com"

func newAuthFixture() (*MockAllowlistRepo, *MockLoginTokenRepo, *MockEmailService, service.AuthService) {
	allowRepo := new(MockAllowlistRepo)
	tokenRepo := new(MockLoginTokenRepo)
	emailSvc := new(MockEmailService)
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef")
	svc := service.NewAuthService(allowRepo, tokenRepo, emailSvc, tokens, testBaseURL, 24*time.Hour, 720*time.Hour)
	return allowRepo, tokenRepo, emailSvc, svc
}

func approvedEntry() *domain.AllowlistEntry {
	now := time.Now()
	return &domain.AllowlistEntry{
		Email:           "jane@clinic.org",
		EmailNormalized: "jane@clinic.org",
		Status:          domain.AllowlistStatusApproved,
		InviteeType:     domain.InviteeTypePhysician,
		ApprovedAt:      &now,
		CreatedAt:       now,
	}
}

func revokedEntry() *domain.AllowlistEntry {
	e := approvedEntry()
	now := time.Now()
	e.Status = domain.AllowlistStatusRevoked
	e.RevokedAt = &now
	return e
}

func TestIsAllowlisted(t *testing.T) {
	ctx := context.Background()

	t.Run("Approved", func(t *testing.T) {
		allowRepo, _, _, svc := newAuthFixture()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(approvedEntry(), nil).Once()

		permitted, entry, err := svc.IsAllowlisted(ctx, "  Jane@Clinic.ORG ")
		require.NoError(t, err)
		assert.True(t, permitted)
		require.NotNil(t, entry)
	})

	t.Run("Revoked", func(t *testing.T) {
		allowRepo, _, _, svc := newAuthFixture()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(revokedEntry(), nil).Once()

		permitted, entry, err := svc.IsAllowlisted(ctx, "jane@clinic.org")
		require.NoError(t, err)
		assert.False(t, permitted)
		// The entry still comes back so callers can inspect the revocation.
		require.NotNil(t, entry)
		assert.Equal(t, domain.AllowlistStatusRevoked, entry.Status)
	})

	t.Run("Unknown", func(t *testing.T) {
		allowRepo, _, _, svc := newAuthFixture()
		allowRepo.On("GetByEmail", ctx, "nobody@clinic.org").Return(nil, domain.ErrNotFound).Once()

		permitted, entry, err := svc.IsAllowlisted(ctx, "nobody@clinic.org")
		require.NoError(t, err)
		assert.False(t, permitted)
		assert.Nil(t, entry)
	})

	t.Run("RepoError", func(t *testing.T) {
		allowRepo, _, _, svc := newAuthFixture()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(nil, errors.New("db down")).Once()

		_, _, err := svc.IsAllowlisted(ctx, "jane@clinic.org")
		assert.Error(t, err)
	})
}

func TestRequestSignInLink(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		allowRepo, tokenRepo, emailSvc, svc := newAuthFixture()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(approvedEntry(), nil).Once()

		var storedHash string
		tokenRepo.On("Create", ctx, mock.MatchedBy(func(tok *domain.LoginToken) bool {
			storedHash = tok.TokenHash
			return tok.EmailNormalized == "jane@clinic.org" && tok.ExpiresAt.After(time.Now().Add(23*time.Hour))
		})).Return(nil).Once()

		emailSvc.On("SendSignInLink", ctx, "jane@clinic.org", mock.MatchedBy(func(link string) bool {
			u, err := url.Parse(link)
			if err != nil {
				return false
			}
			raw := u.Query().Get("token")
			// The emailed link carries the raw token; only its digest is stored.
			return u.Path == "/api/auth/callback" &&
				u.Query().Get("email") == "jane@clinic.org" &&
				u.Query().Get("next") == "/viewer" &&
				raw != "" && raw != storedHash &&
				security.HashLinkToken(raw) == storedHash
		})).Return(nil).Once()

		err := svc.RequestSignInLink(ctx, "jane@clinic.org", "/viewer")
		assert.NoError(t, err)
		tokenRepo.AssertExpectations(t)
		emailSvc.AssertExpectations(t)
	})

	t.Run("NotAllowlisted", func(t *testing.T) {
		allowRepo, tokenRepo, emailSvc, svc := newAuthFixture()
		allowRepo.On("GetByEmail", ctx, "nobody@clinic.org").Return(nil, domain.ErrNotFound).Once()

		err := svc.RequestSignInLink(ctx, "nobody@clinic.org", "")
		assert.ErrorIs(t, err, service.ErrNotAllowlisted)
		tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		emailSvc.AssertNotCalled(t, "SendSignInLink", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Revoked", func(t *testing.T) {
		allowRepo, _, _, svc := newAuthFixture()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(revokedEntry(), nil).Once()

		err := svc.RequestSignInLink(ctx, "jane@clinic.org", "")
		assert.ErrorIs(t, err, service.ErrNotAllowlisted)
	})

	t.Run("DeliveryFailure", func(t *testing.T) {
		allowRepo, tokenRepo, emailSvc, svc := newAuthFixture()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(approvedEntry(), nil).Once()
		tokenRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		emailSvc.On("SendSignInLink", ctx, "jane@clinic.org", mock.Anything).
			Return(errors.New("sendgrid 503")).Once()

		err := svc.RequestSignInLink(ctx, "jane@clinic.org", "")
		assert.ErrorIs(t, err, service.ErrLinkDelivery)
	})
}

func TestCompleteSignIn(t *testing.T) {
	ctx := context.Background()
	raw := "raw-link-token"
	hash := security.HashLinkToken(raw)

	validToken := func() *domain.LoginToken {
		return &domain.LoginToken{
			TokenHash:       hash,
			EmailNormalized: "jane@clinic.org",
			ExpiresAt:       time.Now().Add(time.Hour),
			CreatedAt:       time.Now().Add(-time.Minute),
		}
	}

	t.Run("Success", func(t *testing.T) {
		allowRepo, tokenRepo, _, svc := newAuthFixture()
		tokenRepo.On("Consume", ctx, hash).Return(validToken(), nil).Once()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(approvedEntry(), nil).Once()
		allowRepo.On("TouchLastLogin", ctx, "jane@clinic.org", mock.Anything).Return(nil).Once()

		session, err := svc.CompleteSignIn(ctx, raw, "Jane@Clinic.ORG")
		require.NoError(t, err)
		assert.NotEmpty(t, session)
		allowRepo.AssertExpectations(t)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		_, tokenRepo, _, svc := newAuthFixture()
		tokenRepo.On("Consume", ctx, mock.Anything).Return(nil, domain.ErrNotFound).Once()

		_, err := svc.CompleteSignIn(ctx, "bogus", "jane@clinic.org")
		assert.ErrorIs(t, err, service.ErrInvalidLinkToken)
	})

	t.Run("EmailMismatch", func(t *testing.T) {
		_, tokenRepo, _, svc := newAuthFixture()
		tokenRepo.On("Consume", ctx, hash).Return(validToken(), nil).Once()

		_, err := svc.CompleteSignIn(ctx, raw, "mallory@evil.com")
		assert.ErrorIs(t, err, service.ErrInvalidLinkToken)
	})

	t.Run("Expired", func(t *testing.T) {
		_, tokenRepo, _, svc := newAuthFixture()
		expired := validToken()
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		tokenRepo.On("Consume", ctx, hash).Return(expired, nil).Once()

		_, err := svc.CompleteSignIn(ctx, raw, "jane@clinic.org")
		assert.ErrorIs(t, err, service.ErrInvalidLinkToken)
	})

	t.Run("RevokedAfterLinkIssued", func(t *testing.T) {
		// Revocation between link-send and link-click must deny sign-in.
		allowRepo, tokenRepo, _, svc := newAuthFixture()
		tokenRepo.On("Consume", ctx, hash).Return(validToken(), nil).Once()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(revokedEntry(), nil).Once()

		_, err := svc.CompleteSignIn(ctx, raw, "jane@clinic.org")
		assert.ErrorIs(t, err, service.ErrNotAllowlisted)
		allowRepo.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("TouchLastLoginFailureSwallowed", func(t *testing.T) {
		allowRepo, tokenRepo, _, svc := newAuthFixture()
		tokenRepo.On("Consume", ctx, hash).Return(validToken(), nil).Once()
		allowRepo.On("GetByEmail", ctx, "jane@clinic.org").Return(approvedEntry(), nil).Once()
		allowRepo.On("TouchLastLogin", ctx, "jane@clinic.org", mock.Anything).
			Return(errors.New("db down")).Once()

		session, err := svc.CompleteSignIn(ctx, raw, "jane@clinic.org")
		require.NoError(t, err)
		assert.NotEmpty(t, session)
	})

	t.Run("EmptyArguments", func(t *testing.T) {
		_, tokenRepo, _, svc := newAuthFixture()

		_, err := svc.CompleteSignIn(ctx, "", "jane@clinic.org")
		assert.ErrorIs(t, err, service.ErrInvalidLinkToken)
		_, err = svc.CompleteSignIn(ctx, raw, "")
		assert.ErrorIs(t, err, service.ErrInvalidLinkToken)
		tokenRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
	})
}

func TestNewSubmissionID(t *testing.T) {
	svc := service.NewIntakeService(new(MockAccessRequestRepo))

	for range 20 {
		id := svc.NewSubmissionID()
		assert.Regexp(t, `^AURON-\d{6}$`, id)
	}
}

func TestSubmitAccessRequest(t *testing.T) {
	ctx := context.Background()
	reqRepo := new(MockAccessRequestRepo)
	svc := service.NewIntakeService(reqRepo)

	reqRepo.On("Create", ctx, mock.MatchedBy(func(req *domain.AccessRequest) bool {
		return req.ID != "" &&
			req.Email == "Jane@Clinic.org" &&
			req.EmailNormalized == "jane@clinic.org" &&
			req.Status == domain.AccessRequestStatusPending &&
			req.Specialty == nil &&
			req.Availability != nil && *req.Availability == "Weekdays"
	})).Return(nil).Once()

	req, err := svc.SubmitAccessRequest(ctx, &forms.DemoAccessRequest{
		FullName:                     "Jane Doe",
		Email:                        "Jane@Clinic.org",
		Role:                         "Physician",
		Institution:                  "Clinic NYC",
		CountryRegion:                "USA",
		EvaluationGoal:               "Evaluate vascular segmentation output quality.",
		Availability:                 "Weekdays",
		AckPrototypeNotMedicalAdvice: true,
		AckNoSharing:                 true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AccessRequestStatusPending, req.Status)
	reqRepo.AssertExpectations(t)
}
