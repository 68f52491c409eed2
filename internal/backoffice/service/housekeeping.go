package service

import (
	"context"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// DefaultHousekeepingInterval is how often expired refresh tokens and stale
// login attempts are pruned.
const DefaultHousekeepingInterval = time.Hour

// Housekeeping is the background janitor. Revocation keeps tokens unusable
// the moment they are revoked; this worker only reclaims the rows.
type Housekeeping struct {
	Store    store.Store
	Interval time.Duration

	stop chan struct{}
	done chan struct{}
}

// Start launches the ticker goroutine. One sweep runs immediately so a
// long-stopped instance catches up at boot.
func (h *Housekeeping) Start(ctx context.Context) {
	if h.Interval <= 0 {
		h.Interval = DefaultHousekeepingInterval
	}
	h.stop = make(chan struct{})
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		h.sweep(ctx)

		ticker := time.NewTicker(h.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.sweep(ctx)
			case <-h.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop signals the worker and waits for the in-flight sweep to finish.
func (h *Housekeeping) Stop() {
	if h.stop == nil {
		return
	}
	close(h.stop)
	<-h.done
}

func (h *Housekeeping) sweep(ctx context.Context) {
	log := slogx.FromContext(ctx)

	if err := h.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx); err != nil {
		log.Warn("housekeeping: pruning expired refresh tokens failed", "err", err)
	}
	cutoff := time.Now().UTC().Add(-attemptRetention)
	if err := h.Store.LoginAttempts().DeleteLoginAttemptsBefore(ctx, cutoff); err != nil {
		log.Warn("housekeeping: pruning login attempts failed", "err", err)
	}
}
