package service

import (
	"context"
	"errors"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/cryptox"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/lumenlms/backoffice/pkg/jwtx"
)

// TokenService issues and verifies the access/refresh token pair. Access
// tokens are stateless; refresh tokens are additionally backed by a
// persisted, revocable record matched via SHA-256 fingerprint.
type TokenService struct {
	AccessCodec  *jwtx.Codec
	RefreshCodec *jwtx.Codec
	Store        store.Store
	Settings     *SettingsService

	// RefreshTTL defaults to jwtx.DefaultRefreshTokenTTL (7 days).
	RefreshTTL time.Duration
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// IssuePair mints an access token (TTL from the sessionTimeout setting) and
// a refresh token (fixed TTL), persisting the refresh token's fingerprint.
func (s *TokenService) IssuePair(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	settings, err := s.Settings.Security(ctx)
	if err != nil {
		return domain.TokenPair{}, err
	}
	accessTTL := settings.SessionTimeout()

	access, err := s.AccessCodec.Sign(user.ID, user.Email, accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.RefreshCodec.Sign(user.ID, "", s.refreshTTL())
	if err != nil {
		return domain.TokenPair{}, err
	}

	record := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(refresh),
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL()),
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, record); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    accessTTL,
	}, nil
}

// VerifyRefresh validates a presented refresh token end to end: signature
// and expiry via the refresh codec, then the persisted record must exist
// and still be live. Revoked, expired and forged tokens all fail with
// ErrInvalidToken.
func (s *TokenService) VerifyRefresh(ctx context.Context, raw string) (domain.RefreshToken, error) {
	if _, err := s.RefreshCodec.Verify(raw); err != nil {
		return domain.RefreshToken{}, ErrInvalidToken
	}

	record, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(raw))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RefreshToken{}, ErrInvalidToken
		}
		return domain.RefreshToken{}, err
	}
	if !record.Live(time.Now().UTC()) {
		return domain.RefreshToken{}, ErrInvalidToken
	}
	return record, nil
}

// RevokeRefresh revokes the record behind a presented refresh token.
// Unknown tokens are a no-op so logout stays idempotent.
func (s *TokenService) RevokeRefresh(ctx context.Context, raw string) error {
	record, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(raw))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.Store.RefreshTokens().RevokeRefreshToken(ctx, record.ID)
}
