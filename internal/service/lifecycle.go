package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/repository"
)

type lifecycleService struct {
	reqRepo     repository.AccessRequestRepository
	allowRepo   repository.AllowlistRepository
	tx          repository.Transactor
	emailSvc    EmailService
	startURL    string // e.g. https://auronintelligence.com/start
	defaultNext string
}

func NewLifecycleService(
	reqRepo repository.AccessRequestRepository,
	allowRepo repository.AllowlistRepository,
	tx repository.Transactor,
	emailSvc EmailService,
	startURL string,
	defaultNext string,
) LifecycleService {
	return &lifecycleService{
		reqRepo:     reqRepo,
		allowRepo:   allowRepo,
		tx:          tx,
		emailSvc:    emailSvc,
		startURL:    startURL,
		defaultNext: defaultNext,
	}
}

// startLink builds the sign-in entry link embedded in approval and invite
// emails: the start page with the recipient's address and the fixed
// post-login destination.
func (s *lifecycleService) startLink(email string) string {
	u, err := url.Parse(s.startURL)
	if err != nil {
		return s.startURL
	}
	q := u.Query()
	q.Set("email", email)
	q.Set("next", s.defaultNext)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *lifecycleService) ApproveAccessRequest(ctx context.Context, p ApproveAccessRequestParams) (*ApprovalResult, error) {
	requestID := strings.TrimSpace(p.RequestID)
	if requestID == "" {
		return nil, ErrMissingRequestID
	}

	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get access request: %w", err)
	}

	now := time.Now()
	reviewedBy := optional(strings.TrimSpace(p.ReviewedBy))
	notes := optional(strings.TrimSpace(p.Notes))
	inviteeType := domain.ParseInviteeType(p.InviteeType)

	entry := &domain.AllowlistEntry{
		Email:           req.Email,
		EmailNormalized: req.EmailNormalized,
		Status:          domain.AllowlistStatusApproved,
		InviteeType:     inviteeType,
		ApprovedAt:      &now,
		InvitedBy:       reviewedBy,
		Notes:           notes,
		CreatedAt:       now,
	}

	// The request update and the allowlist upsert commit together or not at
	// all; a request must never read approved without its allowlist entry.
	err = s.tx.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.AccessRequests().UpdateStatus(ctx, req.ID, domain.AccessRequestStatusApproved, now, reviewedBy); err != nil {
			return fmt.Errorf("failed to update access request: %w", err)
		}
		if err := tx.Allowlist().Upsert(ctx, entry); err != nil {
			return fmt.Errorf("failed to upsert allowlist entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req.Status = domain.AccessRequestStatusApproved
	req.ReviewedAt = &now
	req.ReviewedBy = reviewedBy

	result := &ApprovalResult{Request: req, Entry: entry}
	if p.Notify {
		if err := s.emailSvc.SendApprovalNotification(ctx, req.Email, s.startLink(req.Email)); err != nil {
			result.EmailError = err.Error()
		} else {
			result.EmailSent = true
		}
	}
	return result, nil
}

func (s *lifecycleService) RejectAccessRequest(ctx context.Context, requestID, reviewedBy string) error {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ErrMissingRequestID
	}

	err := s.reqRepo.UpdateStatus(ctx, requestID, domain.AccessRequestStatusRejected, time.Now(), optional(strings.TrimSpace(reviewedBy)))
	if errors.Is(err, domain.ErrNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update access request: %w", err)
	}
	return nil
}

func (s *lifecycleService) DirectInvite(ctx context.Context, p DirectInviteParams) (*InviteResult, error) {
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	now := time.Now()
	entry := &domain.AllowlistEntry{
		Email:           email,
		EmailNormalized: domain.NormalizeEmail(email),
		Status:          domain.AllowlistStatusApproved,
		InviteeType:     domain.ParseInviteeType(p.InviteeType),
		ApprovedAt:      &now,
		InvitedBy:       optional(strings.TrimSpace(p.InvitedBy)),
		Notes:           optional(strings.TrimSpace(p.Notes)),
		CreatedAt:       now,
	}
	if err := s.allowRepo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to upsert allowlist entry: %w", err)
	}

	result := &InviteResult{Entry: entry}
	if p.Notify {
		if err := s.emailSvc.SendInviteNotification(ctx, email, s.startLink(email)); err != nil {
			result.EmailError = err.Error()
		} else {
			result.EmailSent = true
		}
	}
	return result, nil
}

func (s *lifecycleService) RevokeAllowlist(ctx context.Context, p RevokeParams) (*RevokeResult, error) {
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	existing, err := s.allowRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get allowlist entry: %w", err)
	}

	now := time.Now()
	updated := *existing
	updated.Status = domain.AllowlistStatusRevoked
	updated.RevokedAt = &now
	if revokedBy := strings.TrimSpace(p.RevokedBy); revokedBy != "" {
		updated.InvitedBy = &revokedBy
	}

	// Notes accumulate; revocation appends a line and never rewrites the
	// history above it.
	line := "Revoked"
	if reason := strings.TrimSpace(p.Reason); reason != "" {
		line = "Revoked: " + reason
	}
	if existing.Notes != nil && *existing.Notes != "" {
		joined := *existing.Notes + "\n" + line
		updated.Notes = &joined
	} else {
		updated.Notes = &line
	}

	if err := s.allowRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update allowlist entry: %w", err)
	}

	result := &RevokeResult{Entry: &updated}
	if p.Notify {
		if err := s.emailSvc.SendAccessUpdatedNotification(ctx, email); err != nil {
			result.EmailError = err.Error()
		} else {
			result.EmailSent = true
		}
	}
	return result, nil
}

func (s *lifecycleService) ReinstateAllowlist(ctx context.Context, email, invitedBy string) (*domain.AllowlistEntry, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	existing, err := s.allowRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get allowlist entry: %w", err)
	}

	now := time.Now()
	updated := *existing
	updated.Status = domain.AllowlistStatusApproved
	updated.ApprovedAt = &now
	updated.RevokedAt = nil
	if by := strings.TrimSpace(invitedBy); by != "" {
		updated.InvitedBy = &by
	}

	if err := s.allowRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update allowlist entry: %w", err)
	}
	return &updated, nil
}

func (s *lifecycleService) Overview(ctx context.Context) (*AdminOverview, error) {
	pending, err := s.reqRepo.ListByStatus(ctx, domain.AccessRequestStatusPending, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	approved, err := s.allowRepo.ListByStatus(ctx, domain.AllowlistStatusApproved, 300)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved entries: %w", err)
	}
	revoked, err := s.allowRepo.ListByStatus(ctx, domain.AllowlistStatusRevoked, 300)
	if err != nil {
		return nil, fmt.Errorf("failed to list revoked entries: %w", err)
	}
	return &AdminOverview{Pending: pending, Approved: approved, Revoked: revoked}, nil
}
