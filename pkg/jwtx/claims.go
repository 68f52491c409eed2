package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token use values embedded in the "use" claim. An access token presented to
// the refresh endpoint (or vice versa) fails verification even before the
// signature check, and the separate signing secrets make the signature check
// fail regardless.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// DefaultRefreshTokenTTL is the fixed lifetime for refresh tokens.
const DefaultRefreshTokenTTL = 7 * 24 * time.Hour

// Claims are the signed claims carried by both token kinds. Access tokens
// additionally carry the user's email; refresh tokens stay minimal since the
// persisted record is the source of truth for revocation.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user (access tokens only).
	Email string `json:"email,omitempty"`

	// Use discriminates access from refresh tokens.
	Use string `json:"use,omitempty"`
}

// NewClaims builds minimally-correct claims for a token of the given use.
func NewClaims(subject, email, use, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Use:   use,
	}
}
