package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLockoutThreshold(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	fixedClock(svc.lockout, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))

	email := "victim@example.com"

	// Defaults: 5 attempts over a 15 minute window
	for i := 0; i < 4; i++ {
		require.NoError(t, svc.lockout.RecordAttempt(ctx, email, "192.0.2.1", false))
		lock, err := svc.lockout.IsLocked(ctx, email)
		require.NoError(t, err)
		require.False(t, lock.Locked)
	}

	require.NoError(t, svc.lockout.RecordAttempt(ctx, email, "192.0.2.1", false))
	lock, err := svc.lockout.IsLocked(ctx, email)
	require.NoError(t, err)
	require.True(t, lock.Locked)
	require.GreaterOrEqual(t, lock.RemainingMinutes, 1)
	require.LessOrEqual(t, lock.RemainingMinutes, 15)
}

func TestLockoutWindowExpiry(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	advance := fixedClock(svc.lockout, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))

	email := "victim@example.com"
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.lockout.RecordAttempt(ctx, email, "192.0.2.1", false))
	}

	lock, err := svc.lockout.IsLocked(ctx, email)
	require.NoError(t, err)
	require.True(t, lock.Locked)

	// Failures age out of the sliding window rather than being cleared
	advance(16 * time.Minute)
	lock, err = svc.lockout.IsLocked(ctx, email)
	require.NoError(t, err)
	require.False(t, lock.Locked)
}

func TestLockoutSuccessDoesNotResetWindow(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	fixedClock(svc.lockout, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))

	email := "victim@example.com"
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.lockout.RecordAttempt(ctx, email, "192.0.2.1", false))
	}

	// A successful attempt recorded after lock does not shorten the lock;
	// only failures count toward it and only time clears it
	require.NoError(t, svc.lockout.RecordAttempt(ctx, email, "192.0.2.1", true))

	lock, err := svc.lockout.IsLocked(ctx, email)
	require.NoError(t, err)
	require.True(t, lock.Locked)
}

func TestLockoutIsPerEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	fixedClock(svc.lockout, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.lockout.RecordAttempt(ctx, "a@example.com", "192.0.2.1", false))
	}

	lock, err := svc.lockout.IsLocked(ctx, "b@example.com")
	require.NoError(t, err)
	require.False(t, lock.Locked)
}

func TestLockoutHonorsSettings(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	fixedClock(svc.lockout, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))

	settings, err := svc.settings.Security(ctx)
	require.NoError(t, err)
	settings.MaxLoginAttempts = 2
	require.NoError(t, svc.settings.UpdateSecurity(ctx, settings))

	email := "victim@example.com"
	require.NoError(t, svc.lockout.RecordAttempt(ctx, email, "192.0.2.1", false))
	require.NoError(t, svc.lockout.RecordAttempt(ctx, email, "192.0.2.1", false))

	// The tightened threshold applies immediately, no restart needed
	lock, err := svc.lockout.IsLocked(ctx, email)
	require.NoError(t, err)
	require.True(t, lock.Locked)
}
