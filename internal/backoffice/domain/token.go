package domain

import "time"

// TokenPair is what a successful login or refresh returns: the short-lived
// access token (JWT) and the long-lived refresh token.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"expiresIn"` // access token lifetime
}

// RefreshToken models the persisted refresh token record. The presented
// token itself is never stored, only its SHA-256 fingerprint.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time // soft-delete timestamp; set on logout or cascade
	CreatedAt time.Time
}

// Live reports whether the token is still usable at the given instant.
func (t RefreshToken) Live(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
