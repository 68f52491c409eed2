package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// attemptRetention is how long attempt rows are kept before opportunistic
// pruning. Long enough for any sane lockout window, short enough that the
// table never doubles as an audit trail.
const attemptRetention = 24 * time.Hour

// LockoutPolicy computes brute-force lock state from the sliding window of
// failed login attempts. Thresholds come from the security settings on
// every call.
type LockoutPolicy struct {
	Store    store.Store
	Settings *SettingsService

	now func() time.Time // test hook; nil means time.Now
}

func (p *LockoutPolicy) clock() time.Time {
	if p.now != nil {
		return p.now().UTC()
	}
	return time.Now().UTC()
}

// IsLocked reports whether the email is currently locked out, and if so for
// how many more minutes (floored to 1). A successful login does not clear
// the window early; failures simply age out.
func (p *LockoutPolicy) IsLocked(ctx context.Context, email string) (domain.Lockout, error) {
	settings, err := p.Settings.Security(ctx)
	if err != nil {
		return domain.Lockout{}, err
	}

	now := p.clock()
	windowStart := now.Add(-settings.LockoutWindow())

	failed, err := p.Store.LoginAttempts().CountFailedSince(ctx, email, windowStart)
	if err != nil {
		return domain.Lockout{}, err
	}
	if failed < settings.MaxLoginAttempts {
		return domain.Lockout{}, nil
	}

	latest, err := p.Store.LoginAttempts().LatestFailedAt(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Lockout{}, nil
		}
		return domain.Lockout{}, err
	}

	remaining := latest.Add(settings.LockoutWindow()).Sub(now)
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return domain.Lockout{Locked: true, RemainingMinutes: minutes}, nil
}

// RecordAttempt appends one attempt row, then prunes rows older than 24
// hours. The prune is best-effort housekeeping and never fails the caller.
func (p *LockoutPolicy) RecordAttempt(ctx context.Context, email, ip string, success bool) error {
	now := p.clock()
	err := p.Store.LoginAttempts().CreateLoginAttempt(ctx, domain.LoginAttempt{
		ID:        idx.New().String(),
		Email:     email,
		IP:        ip,
		Success:   success,
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	if err := p.Store.LoginAttempts().DeleteLoginAttemptsBefore(ctx, now.Add(-attemptRetention)); err != nil {
		slogx.FromContext(ctx).Warn("login attempt pruning failed", "err", err)
	}
	return nil
}
