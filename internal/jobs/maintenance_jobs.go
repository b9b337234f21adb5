package jobs

import (
	"context"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/logger"
)

// PurgeExpiredLoginTokens deletes sign-in link tokens past their expiry.
// Expired tokens are already rejected at redemption; this keeps the table
// from accumulating dead rows.
func (jr *JobRunner) PurgeExpiredLoginTokens() {
	jr.runWithRecovery("PurgeExpiredLoginTokens", func() {
		ctx := context.Background()

		deleted, err := jr.store.LoginTokenRepository.DeleteExpired(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to purge expired login tokens", "error", err)
			return
		}

		logger.Info("Expired login tokens purged", "count", deleted)
	})
}

// SendPendingRequestDigest emails the configured recipient a summary of
// access requests still awaiting review. Skipped when no recipient is
// configured or the queue is empty.
func (jr *JobRunner) SendPendingRequestDigest() {
	jr.runWithRecovery("SendPendingRequestDigest", func() {
		ctx := context.Background()

		recipient := jr.config.Scheduler.DigestRecipient
		if recipient == "" {
			logger.Debug("No digest recipient configured, skipping")
			return
		}

		pending, err := jr.store.AccessRequestRepository.ListByStatus(ctx, domain.AccessRequestStatusPending, 200)
		if err != nil {
			logger.Error("Failed to list pending access requests", "error", err)
			return
		}
		if len(pending) == 0 {
			logger.Debug("No pending access requests, skipping digest")
			return
		}

		if err := jr.email.SendPendingRequestDigest(ctx, recipient, pending); err != nil {
			logger.Error("Failed to send pending request digest",
				"recipient", recipient,
				"pending", len(pending),
				"error", err)
			return
		}

		logger.Info("Pending request digest sent", "recipient", recipient, "pending", len(pending))
	})
}
