package service_test

import (
	"context"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockAccessRequestRepo struct {
	mock.Mock
}

func (m *MockAccessRequestRepo) Create(ctx context.Context, req *domain.AccessRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAccessRequestRepo) GetByID(ctx context.Context, id string) (*domain.AccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestRepo) UpdateStatus(ctx context.Context, id string, status domain.AccessRequestStatus, reviewedAt time.Time, reviewedBy *string) error {
	args := m.Called(ctx, id, status, reviewedAt, reviewedBy)
	return args.Error(0)
}

func (m *MockAccessRequestRepo) ListByStatus(ctx context.Context, status domain.AccessRequestStatus, limit int) ([]domain.AccessRequest, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccessRequest), args.Error(1)
}

type MockAllowlistRepo struct {
	mock.Mock
}

func (m *MockAllowlistRepo) GetByEmail(ctx context.Context, emailNormalized string) (*domain.AllowlistEntry, error) {
	args := m.Called(ctx, emailNormalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AllowlistEntry), args.Error(1)
}

func (m *MockAllowlistRepo) Upsert(ctx context.Context, entry *domain.AllowlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAllowlistRepo) Update(ctx context.Context, entry *domain.AllowlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAllowlistRepo) TouchLastLogin(ctx context.Context, emailNormalized string, at time.Time) error {
	args := m.Called(ctx, emailNormalized, at)
	return args.Error(0)
}

func (m *MockAllowlistRepo) ListByStatus(ctx context.Context, status domain.AllowlistStatus, limit int) ([]domain.AllowlistEntry, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AllowlistEntry), args.Error(1)
}

type MockLoginTokenRepo struct {
	mock.Mock
}

func (m *MockLoginTokenRepo) Create(ctx context.Context, token *domain.LoginToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockLoginTokenRepo) Consume(ctx context.Context, tokenHash string) (*domain.LoginToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginToken), args.Error(1)
}

func (m *MockLoginTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendApprovalNotification(ctx context.Context, to, startURL string) error {
	args := m.Called(ctx, to, startURL)
	return args.Error(0)
}

func (m *MockEmailService) SendInviteNotification(ctx context.Context, to, startURL string) error {
	args := m.Called(ctx, to, startURL)
	return args.Error(0)
}

func (m *MockEmailService) SendAccessUpdatedNotification(ctx context.Context, to string) error {
	args := m.Called(ctx, to)
	return args.Error(0)
}

func (m *MockEmailService) SendSignInLink(ctx context.Context, to, linkURL string) error {
	args := m.Called(ctx, to, linkURL)
	return args.Error(0)
}

func (m *MockEmailService) SendPendingRequestDigest(ctx context.Context, to string, pending []domain.AccessRequest) error {
	args := m.Called(ctx, to, pending)
	return args.Error(0)
}

// fakeTransactor runs the closure directly against the supplied mock
// repositories, standing in for a real database transaction.
type fakeTransactor struct {
	requests  repository.AccessRequestRepository
	allowlist repository.AllowlistRepository
}

func (f *fakeTransactor) AccessRequests() repository.AccessRequestRepository { return f.requests }
func (f *fakeTransactor) Allowlist() repository.AllowlistRepository          { return f.allowlist }

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return fn(f)
}
