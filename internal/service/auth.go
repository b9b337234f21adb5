package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"auron-backend/internal/domain"
	"auron-backend/internal/repository"
	"auron-backend/internal/security"

	"github.com/google/uuid"
)

type authService struct {
	allowRepo  repository.AllowlistRepository
	tokenRepo  repository.LoginTokenRepository
	emailSvc   EmailService
	tokens     security.TokenManager
	baseURL    string
	linkTTL    time.Duration
	sessionTTL time.Duration
}

func NewAuthService(
	allowRepo repository.AllowlistRepository,
	tokenRepo repository.LoginTokenRepository,
	emailSvc EmailService,
	tokens security.TokenManager,
	baseURL string,
	linkTTL time.Duration,
	sessionTTL time.Duration,
) AuthService {
	return &authService{
		allowRepo:  allowRepo,
		tokenRepo:  tokenRepo,
		emailSvc:   emailSvc,
		tokens:     tokens,
		baseURL:    baseURL,
		linkTTL:    linkTTL,
		sessionTTL: sessionTTL,
	}
}

func (s *authService) IsAllowlisted(ctx context.Context, email string) (bool, *domain.AllowlistEntry, error) {
	entry, err := s.allowRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("failed to look up allowlist entry: %w", err)
	}
	return entry.Status == domain.AllowlistStatusApproved, entry, nil
}

func (s *authService) RequestSignInLink(ctx context.Context, email, next string) error {
	permitted, _, err := s.IsAllowlisted(ctx, email)
	if err != nil {
		return err
	}
	if !permitted {
		return ErrNotAllowlisted
	}

	now := time.Now()
	raw := uuid.NewString()
	token := &domain.LoginToken{
		TokenHash:       security.HashLinkToken(raw),
		EmailNormalized: domain.NormalizeEmail(email),
		ExpiresAt:       now.Add(s.linkTTL),
		CreatedAt:       now,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store login token: %w", err)
	}

	link, err := url.Parse(s.baseURL + "/api/auth/callback")
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	q := link.Query()
	q.Set("token", raw)
	q.Set("email", email)
	if next != "" {
		q.Set("next", next)
	}
	link.RawQuery = q.Encode()

	// Unlike lifecycle notifications, losing this email means the user
	// cannot sign in, so delivery failure fails the operation.
	if err := s.emailSvc.SendSignInLink(ctx, email, link.String()); err != nil {
		return fmt.Errorf("%w: %s", ErrLinkDelivery, err)
	}
	return nil
}

func (s *authService) CompleteSignIn(ctx context.Context, rawToken, email string) (string, error) {
	if rawToken == "" || email == "" {
		return "", ErrInvalidLinkToken
	}

	token, err := s.tokenRepo.Consume(ctx, security.HashLinkToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidLinkToken
		}
		return "", fmt.Errorf("failed to consume login token: %w", err)
	}

	now := time.Now()
	emailNormalized := domain.NormalizeEmail(email)
	if token.EmailNormalized != emailNormalized || token.ExpiresAt.Before(now) {
		return "", ErrInvalidLinkToken
	}

	// The allowlist is the final authority at the moment of sign-in. A
	// revocation between link-send and link-click must deny here.
	permitted, _, err := s.IsAllowlisted(ctx, email)
	if err != nil {
		return "", err
	}
	if !permitted {
		return "", ErrNotAllowlisted
	}

	session, err := s.tokens.IssueUserSession(emailNormalized, s.sessionTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue session: %w", err)
	}

	// Best effort by contract: a lost last-login stamp never fails sign-in.
	_ = s.allowRepo.TouchLastLogin(ctx, emailNormalized, now)

	return session, nil
}
