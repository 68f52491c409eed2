package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec([]byte("access-secret"), "test-issuer", UseAccess)
	require.NoError(t, err)

	raw, err := codec.Sign("user-1", "alice@example.com", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := codec.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, UseAccess, claims.Use)
	require.Equal(t, "test-issuer", claims.Issuer)
}

func TestCodecRejectsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewCodec([]byte("secret"), "test-issuer", UseAccess)
	require.NoError(t, err)
	codec.WithClock(func() time.Time { return now })

	raw, err := codec.Sign("user-1", "", time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(raw)
	require.NoError(t, err)

	codec.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	_, err = codec.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsCrossUse(t *testing.T) {
	t.Parallel()

	access, err := NewCodec([]byte("shared-secret"), "test-issuer", UseAccess)
	require.NoError(t, err)
	refresh, err := NewCodec([]byte("shared-secret"), "test-issuer", UseRefresh)
	require.NoError(t, err)

	raw, err := access.Sign("user-1", "", time.Minute)
	require.NoError(t, err)

	// Same secret, wrong use claim: the refresh verifier must not accept an
	// access token.
	_, err = refresh.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsCrossSecret(t *testing.T) {
	t.Parallel()

	a, err := NewCodec([]byte("secret-a"), "test-issuer", UseAccess)
	require.NoError(t, err)
	b, err := NewCodec([]byte("secret-b"), "test-issuer", UseAccess)
	require.NoError(t, err)

	raw, err := a.Sign("user-1", "", time.Minute)
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, err := NewCodec([]byte("secret"), "issuer-a", UseAccess)
	require.NoError(t, err)
	verifier, err := NewCodec([]byte("secret"), "issuer-b", UseAccess)
	require.NoError(t, err)

	raw, err := signer.Sign("user-1", "", time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsGarbage(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec([]byte("secret"), "test-issuer", UseAccess)
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := codec.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestNewCodecValidation(t *testing.T) {
	t.Parallel()

	_, err := NewCodec(nil, "issuer", UseAccess)
	require.Error(t, err)

	_, err = NewCodec([]byte("secret"), "issuer", "session")
	require.Error(t, err)
}
