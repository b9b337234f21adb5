package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeUserSession  TokenType = "session"
	TokenTypeAdminSession TokenType = "admin"
)

// SessionClaims defines the claims carried by both session cookie tokens.
// Admin sessions carry no identity beyond the type; there is a single
// undifferentiated admin role.
type SessionClaims struct {
	Email string    `json:"email,omitempty"`
	Type  TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	IssueUserSession(email string, ttl time.Duration) (string, error)
	IssueAdminSession(ttl time.Duration) (string, error)
	ValidateUserSession(tokenString string) (*SessionClaims, error)
	ValidateAdminSession(tokenString string) (*SessionClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) IssueUserSession(email string, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		Email: email,
		Type:  TokenTypeUserSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "auron-backend",
			Audience:  jwt.ClaimStrings{"prototype-access"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) IssueAdminSession(ttl time.Duration) (string, error) {
	claims := SessionClaims{
		Type: TokenTypeAdminSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "auron-backend",
			Audience:  jwt.ClaimStrings{"admin-dashboard"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateUserSession(tokenString string) (*SessionClaims, error) {
	return m.validate(tokenString, TokenTypeUserSession)
}

func (m *tokenManager) ValidateAdminSession(tokenString string) (*SessionClaims, error) {
	return m.validate(tokenString, TokenTypeAdminSession)
}

func (m *tokenManager) validate(tokenString string, want TokenType) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// HashLinkToken digests a raw magic-link token for storage and lookup. The
// raw token never touches the database.
func HashLinkToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
