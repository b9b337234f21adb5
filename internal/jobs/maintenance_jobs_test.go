package jobs_test

import (
	"context"
	"testing"
	"time"

	"auron-backend/internal/config"
	"auron-backend/internal/domain"
	"auron-backend/internal/jobs"
	"auron-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

type stubEmailService struct {
	digestTo      string
	digestPending int
	err           error
}

func (s *stubEmailService) SendApprovalNotification(ctx context.Context, to, startURL string) error {
	return nil
}

func (s *stubEmailService) SendInviteNotification(ctx context.Context, to, startURL string) error {
	return nil
}

func (s *stubEmailService) SendAccessUpdatedNotification(ctx context.Context, to string) error {
	return nil
}

func (s *stubEmailService) SendSignInLink(ctx context.Context, to, linkURL string) error {
	return nil
}

func (s *stubEmailService) SendPendingRequestDigest(ctx context.Context, to string, pending []domain.AccessRequest) error {
	s.digestTo = to
	s.digestPending = len(pending)
	return s.err
}

func newJobFixture(t *testing.T, recipient string) (*jobs.JobRunner, sqlmock.Sqlmock, *stubEmailService) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	email := &stubEmailService{}
	cfg := &config.Config{}
	cfg.Scheduler.DigestRecipient = recipient
	return jobs.NewJobRunner(postgres.NewStore(db), email, cfg), mock, email
}

func TestPurgeExpiredLoginTokens(t *testing.T) {
	runner, mock, _ := newJobFixture(t, "")

	mock.ExpectExec("DELETE FROM login_tokens WHERE expires_at").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 5))

	runner.PurgeExpiredLoginTokens()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func pendingRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "full_name", "email", "email_normalized", "role", "specialty", "institution",
		"country_region", "evaluation_goal", "availability", "ack_prototype_not_medical_advice",
		"ack_no_sharing", "status", "reviewed_at", "reviewed_by", "created_at",
	})
	for _, id := range ids {
		rows.AddRow(id, "Jane Doe", "jane@clinic.org", "jane@clinic.org", "Physician", nil,
			"Clinic NYC", "USA", "Evaluate vascular segmentation output quality.", nil,
			true, true, "pending", nil, nil, time.Now())
	}
	return rows
}

func TestSendPendingRequestDigest(t *testing.T) {
	t.Run("SendsSummary", func(t *testing.T) {
		runner, mock, email := newJobFixture(t, "founders@auron.dev")

		mock.ExpectQuery("SELECT (.+) FROM access_requests").
			WithArgs("pending", 200).
			WillReturnRows(pendingRows("req-1", "req-2"))

		runner.SendPendingRequestDigest()
		assert.Equal(t, "founders@auron.dev", email.digestTo)
		assert.Equal(t, 2, email.digestPending)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SkipsWhenNoRecipient", func(t *testing.T) {
		runner, mock, email := newJobFixture(t, "")

		runner.SendPendingRequestDigest()
		assert.Empty(t, email.digestTo)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SkipsWhenQueueEmpty", func(t *testing.T) {
		runner, mock, email := newJobFixture(t, "founders@auron.dev")

		mock.ExpectQuery("SELECT (.+) FROM access_requests").
			WithArgs("pending", 200).
			WillReturnRows(pendingRows())

		runner.SendPendingRequestDigest()
		assert.Empty(t, email.digestTo)
	})
}
