package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	role := seedRole(t, svc.store, "Editor", "courses.view", "courses.edit")
	user := seedUser(t, svc.store, "alice@example.com", "s3cret-password", &role.ID)

	session, err := svc.sessions.Login(ctx, "alice@example.com", "s3cret-password", "192.0.2.1")
	require.NoError(t, err)
	require.NotEmpty(t, session.Tokens.AccessToken)
	require.NotEmpty(t, session.Tokens.RefreshToken)
	require.Equal(t, user.ID, session.User.ID)
	require.NotNil(t, session.Role)
	require.Equal(t, role.ID, session.Role.ID)
	require.ElementsMatch(t, []string{"courses.view", "courses.edit"}, session.Permissions)

	// Access token verifies against the access codec and carries the user
	claims, err := svc.tokens.AccessCodec.Verify(session.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
}

func TestLoginRejectionIsUniform(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	seedUser(t, svc.store, "alice@example.com", "s3cret-password", nil)

	// Unknown email and wrong password fail identically
	_, errUnknown := svc.sessions.Login(ctx, "nobody@example.com", "whatever", "192.0.2.1")
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)

	_, errWrong := svc.sessions.Login(ctx, "alice@example.com", "wrong-password", "192.0.2.1")
	require.ErrorIs(t, errWrong, ErrInvalidCredentials)

	require.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLoginLockout(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	fixedClock(svc.lockout, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))

	seedUser(t, svc.store, "alice@example.com", "s3cret-password", nil)

	for i := 0; i < 5; i++ {
		_, err := svc.sessions.Login(ctx, "alice@example.com", "wrong-password", "192.0.2.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The correct password no longer helps; the gate runs before
	// verification
	_, err := svc.sessions.Login(ctx, "alice@example.com", "s3cret-password", "192.0.2.1")
	var locked *AccountLockedError
	require.ErrorAs(t, err, &locked)
	require.GreaterOrEqual(t, locked.RemainingMinutes, 1)
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	seedUser(t, svc.store, "alice@example.com", "s3cret-password", nil)

	first, err := svc.sessions.Login(ctx, "alice@example.com", "s3cret-password", "192.0.2.1")
	require.NoError(t, err)

	second, err := svc.sessions.Refresh(ctx, first.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	// The rotated-out token is dead
	_, err = svc.sessions.Refresh(ctx, first.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// The replacement still works
	_, err = svc.sessions.Refresh(ctx, second.Tokens.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsForgedAndForeignTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	seedUser(t, svc.store, "alice@example.com", "s3cret-password", nil)
	session, err := svc.sessions.Login(ctx, "alice@example.com", "s3cret-password", "192.0.2.1")
	require.NoError(t, err)

	_, err = svc.sessions.Refresh(ctx, "not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	// An access token is never accepted where a refresh token is expected,
	// even though it is validly signed
	_, err = svc.sessions.Refresh(ctx, session.Tokens.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	seedUser(t, svc.store, "alice@example.com", "s3cret-password", nil)
	session, err := svc.sessions.Login(ctx, "alice@example.com", "s3cret-password", "192.0.2.1")
	require.NoError(t, err)

	require.NoError(t, svc.sessions.Logout(ctx, session.Tokens.RefreshToken))

	_, err = svc.sessions.Refresh(ctx, session.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Idempotent: revoking again and revoking garbage both succeed
	require.NoError(t, svc.sessions.Logout(ctx, session.Tokens.RefreshToken))
	require.NoError(t, svc.sessions.Logout(ctx, "unknown-token"))
}

func TestSessionTimeoutSettingControlsAccessTTL(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)

	settings, err := svc.settings.Security(ctx)
	require.NoError(t, err)
	settings.SessionTimeoutMinutes = 5
	require.NoError(t, svc.settings.UpdateSecurity(ctx, settings))

	seedUser(t, svc.store, "alice@example.com", "s3cret-password", nil)
	session, err := svc.sessions.Login(ctx, "alice@example.com", "s3cret-password", "192.0.2.1")
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, session.Tokens.ExpiresIn)
}
